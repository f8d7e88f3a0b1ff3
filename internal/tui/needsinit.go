package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
)

// initializeRequestMsg asks the root model to create the directory
// account.
type initializeRequestMsg struct{}

// needsInitModel offers the one-time directory initialization.
type needsInitModel struct {
	running bool
	flash   string
}

func newNeedsInitModel() needsInitModel {
	return needsInitModel{}
}

func (m needsInitModel) Init() tea.Cmd {
	return nil
}

func (m needsInitModel) Update(msg tea.Msg) (needsInitModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, zstyle.KeyQuit) {
			return m, tea.Quit
		}

		if key.Matches(msg, zstyle.KeyEnter) && !m.running {
			m.running = true
			m.flash = ""
			return m, func() tea.Msg { return initializeRequestMsg{} }
		}

		if msg.String() == "r" {
			return m, func() tea.Msg { return refreshRequestMsg{} }
		}

	case submitErrMsg:
		m.running = false
		m.flash = msg.err.Error()
		return m, clearFlashAfter()

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m needsInitModel) View() string {
	s := "\n  " + zstyle.Subtitle.Render("directory account not found") + "\n\n"
	s += "  " + zstyle.MutedText.Render("the shared directory has not been created yet.") + "\n\n"

	if m.running {
		s += "  " + zstyle.MutedText.Render("initializing...") + "\n"
	} else {
		s += "  " + zstyle.Highlight.Render("> Do One-Time Initialization") + "\n"
	}

	s += "\n"
	if m.flash != "" {
		s += "  " + zstyle.StatusErr.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	return s
}
