package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
)

// accent is the zsol highlight color.
var accent = lipgloss.Color("135")

// connectRequestMsg asks the root model for an explicit wallet connect.
type connectRequestMsg struct{}

// landingModel is the signed-out hero screen.
type landingModel struct {
	connecting bool
	flash      string
}

func newLandingModel() landingModel {
	return landingModel{}
}

func (m landingModel) Init() tea.Cmd {
	return nil
}

func (m landingModel) Update(msg tea.Msg) (landingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, zstyle.KeyQuit) {
			return m, tea.Quit
		}

		if key.Matches(msg, zstyle.KeyEnter) && !m.connecting {
			m.connecting = true
			m.flash = ""
			return m, func() tea.Msg { return connectRequestMsg{} }
		}

	case connectErrMsg:
		m.connecting = false
		m.flash = msg.err.Error()
		return m, clearFlashAfter()

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m landingModel) View() string {
	title := zstyle.Title.Render("Give your audience a Solana way to say thanks")
	sub := zstyle.MutedText.Render("the fastest, easiest and decentralized way to say thanks")

	s := "\n  " + title + "\n  " + sub + "\n\n"

	if m.connecting {
		s += "  " + zstyle.MutedText.Render("connecting wallet...") + "\n"
	} else {
		s += "  " + zstyle.Highlight.Render("> Connect Wallet") + "\n"
	}

	s += "\n"
	if m.flash != "" {
		s += "  " + zstyle.StatusErr.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	return s
}
