package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
)

// createSupporterRequestMsg asks the root model to register a supporter.
type createSupporterRequestMsg struct {
	name string
}

// supporterFormModel collects the supporter profile name.
type supporterFormModel struct {
	input      textinput.Model
	submitting bool
	flash      string
}

func newSupporterFormModel() supporterFormModel {
	ti := textinput.New()
	ti.Placeholder = "enter your name"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Prompt = ""
	ti.Focus()

	return supporterFormModel{input: ti}
}

func (m supporterFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m supporterFormModel) Update(msg tea.Msg) (supporterFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEsc:
			return m, func() tea.Msg { return backMsg{} }
		}

		if key.Matches(msg, zstyle.KeyEnter) {
			return m.submit()
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case submitErrMsg:
		m.submitting = false
		m.flash = msg.err.Error()
		return m, clearFlashAfter()

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m supporterFormModel) submit() (supporterFormModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	name := strings.TrimSpace(m.input.Value())
	if name == "" {
		m.flash = "name is required"
		return m, clearFlashAfter()
	}

	m.submitting = true
	m.flash = ""
	return m, func() tea.Msg {
		return createSupporterRequestMsg{name: name}
	}
}

func (m supporterFormModel) View() string {
	s := "\n  " + zstyle.Subtitle.Render("create your supporter account") + "\n\n"
	s += "  " + zstyle.MutedText.Render("name") + "\n  " + m.input.View() + "\n\n"

	if m.submitting {
		s += "  " + zstyle.MutedText.Render("submitting...") + "\n"
	} else if m.flash != "" {
		s += "  " + zstyle.StatusErr.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	return s
}
