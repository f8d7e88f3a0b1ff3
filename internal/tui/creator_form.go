package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
)

const (
	creatorFieldName = iota
	creatorFieldUsername
	creatorFieldCount
)

// createCreatorRequestMsg asks the root model to register a creator.
type createCreatorRequestMsg struct {
	username string
	name     string
}

// creatorFormModel collects the creator profile fields.
type creatorFormModel struct {
	inputs     [creatorFieldCount]textinput.Model
	focus      int
	submitting bool
	flash      string
}

func newCreatorFormModel() creatorFormModel {
	var inputs [creatorFieldCount]textinput.Model
	for i := range creatorFieldCount {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 40
		ti.Prompt = ""
		inputs[i] = ti
	}
	inputs[creatorFieldName].Placeholder = "enter your name"
	inputs[creatorFieldUsername].Placeholder = "enter your username"

	m := creatorFormModel{inputs: inputs}
	m.inputs[m.focus].Focus()
	return m
}

func (m creatorFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m creatorFormModel) Update(msg tea.Msg) (creatorFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

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

func (m creatorFormModel) handleKey(msg tea.KeyMsg) (creatorFormModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		return m, func() tea.Msg { return backMsg{} }

	case tea.KeyTab, tea.KeyShiftTab:
		m.inputs[m.focus].Blur()
		if msg.Type == tea.KeyTab {
			m.focus = (m.focus + 1) % creatorFieldCount
		} else {
			m.focus = (m.focus + creatorFieldCount - 1) % creatorFieldCount
		}
		m.inputs[m.focus].Focus()
		return m, textinput.Blink
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m creatorFormModel) submit() (creatorFormModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	name := strings.TrimSpace(m.inputs[creatorFieldName].Value())
	username := strings.TrimSpace(m.inputs[creatorFieldUsername].Value())

	if name == "" {
		m.flash = "name is required"
		return m, clearFlashAfter()
	}
	if username == "" {
		m.flash = "username is required"
		return m, clearFlashAfter()
	}

	m.submitting = true
	m.flash = ""
	return m, func() tea.Msg {
		return createCreatorRequestMsg{username: username, name: name}
	}
}

func (m creatorFormModel) View() string {
	s := "\n  " + zstyle.Subtitle.Render("create your creator account") + "\n\n"

	labels := [creatorFieldCount]string{"name", "username"}
	for i, in := range m.inputs {
		label := zstyle.MutedText.Render(labels[i])
		s += "  " + label + "\n  " + in.View() + "\n\n"
	}

	if m.submitting {
		s += "  " + zstyle.MutedText.Render("submitting...") + "\n"
	} else if m.flash != "" {
		s += "  " + zstyle.StatusErr.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	return s
}
