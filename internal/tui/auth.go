package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
)

// navigation intents emitted by child screens

type startCreatorFormMsg struct{}

type startSupporterFormMsg struct{}

type exploreMsg struct{}

// backMsg clears the current navigation intent.
type backMsg struct{}

// viewProfileMsg selects one creator's page.
type viewProfileMsg struct {
	index int
}

// refreshRequestMsg asks for a directory re-fetch.
type refreshRequestMsg struct{}

// authModel is the role-choice screen shown to identities with no
// creator record.
type authModel struct {
	hasSupporter bool
	cursor       int
	flash        string
}

func newAuthModel(hasSupporter bool) authModel {
	return authModel{hasSupporter: hasSupporter}
}

func (m authModel) items() []string {
	items := []string{"Creator"}
	if !m.hasSupporter {
		items = append(items, "Supporter")
	}
	return append(items, "Explore creators")
}

func (m authModel) Init() tea.Cmd {
	return nil
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m authModel) handleKey(msg tea.KeyMsg) (authModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	items := m.items()

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(items)-1 {
			m.cursor++
		}
		return m, nil
	}

	if msg.String() == "r" {
		return m, func() tea.Msg { return refreshRequestMsg{} }
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		return m, m.selectItem(items[m.cursor])
	}

	return m, nil
}

func (m authModel) selectItem(item string) tea.Cmd {
	switch item {
	case "Creator":
		return func() tea.Msg { return startCreatorFormMsg{} }
	case "Supporter":
		return func() tea.Msg { return startSupporterFormMsg{} }
	case "Explore creators":
		return func() tea.Msg { return exploreMsg{} }
	}
	return nil
}

func (m authModel) View() string {
	title := "Who are you?"
	if m.hasSupporter {
		title = "Switch to Creator"
	}

	s := "\n  " + zstyle.Subtitle.Render(title) + "\n\n"

	for i, item := range m.items() {
		if i == m.cursor {
			s += "  " + zstyle.Highlight.Render("> "+item) + "\n"
		} else {
			s += "    " + item + "\n"
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
