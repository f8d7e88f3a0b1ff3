package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zsol/internal/directory"
)

// exploreModel lists all creators with a live fuzzy filter and an
// exact-username search.
type exploreModel struct {
	creators []directory.Creator
	filtered []int // indices into creators, in list order
	cursor   int
	search   textinput.Model
	typing   bool
	flash    string
}

func newExploreModel(creators []directory.Creator) exploreModel {
	ti := textinput.New()
	ti.Placeholder = "search for creators"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Prompt = "/ "

	m := exploreModel{
		creators: creators,
		search:   ti,
	}
	m.filtered = m.filter("")
	return m
}

// filter returns creator indices whose username or name fuzzily matches
// the query. An empty query keeps everyone.
func (m exploreModel) filter(query string) []int {
	out := make([]int, 0, len(m.creators))
	for i, c := range m.creators {
		if query == "" || fuzzy.MatchFold(query, c.Username) || fuzzy.MatchFold(query, c.Name) {
			out = append(out, i)
		}
	}
	return out
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (exploreModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			return m.handleTypingKey(msg)
		}
		return m.handleBrowseKey(msg)

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m exploreModel) handleBrowseKey(msg tea.KeyMsg) (exploreModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m, func() tea.Msg { return backMsg{} }
	}

	switch msg.String() {
	case "/":
		m.typing = true
		m.search.Focus()
		return m, textinput.Blink

	case "r":
		return m, func() tea.Msg { return refreshRequestMsg{} }
	}

	if len(m.filtered) == 0 {
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		idx := m.filtered[m.cursor]
		return m, func() tea.Msg { return viewProfileMsg{index: idx} }
	}

	return m, nil
}

func (m exploreModel) handleTypingKey(msg tea.KeyMsg) (exploreModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.typing = false
		m.search.Blur()
		return m, nil

	case tea.KeyEnter:
		return m.submitSearch()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filtered = m.filter(m.search.Value())
	m.cursor = 0
	return m, cmd
}

// submitSearch resolves the typed username exactly. An unknown username
// flashes and changes nothing else.
func (m exploreModel) submitSearch() (exploreModel, tea.Cmd) {
	query := m.search.Value()
	if query == "" {
		m.typing = false
		m.search.Blur()
		return m, nil
	}

	for i, c := range m.creators {
		if c.Username == query {
			idx := i
			return m, func() tea.Msg { return viewProfileMsg{index: idx} }
		}
	}

	m.flash = fmt.Sprintf("username %q not found", query)
	return m, clearFlashAfter()
}

func (m exploreModel) View() string {
	accentStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)

	s := "\n  " + m.search.View() + "\n\n"

	if len(m.creators) == 0 {
		s += "  " + zstyle.MutedText.Render("no creators yet") + "\n"
	} else if len(m.filtered) == 0 {
		s += "  " + zstyle.MutedText.Render("no matches") + "\n"
	}

	for pos, idx := range m.filtered {
		c := m.creators[idx]
		line := fmt.Sprintf("%-20s %s", truncate(c.Name, 20), zstyle.MutedText.Render("@"+c.Username))

		if pos == m.cursor && !m.typing {
			s += "  " + accentStyle.Render("▸") + " " + line + "\n"
		} else {
			s += "    " + line + "\n"
		}
	}

	s += "\n"
	if m.flash != "" {
		s += "  " + zstyle.StatusErr.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
