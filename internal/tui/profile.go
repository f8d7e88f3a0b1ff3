package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zsol/internal/directory"
	"github.com/zarlcorp/zsol/internal/pay"
)

const (
	payFieldMessage = iota
	payFieldAmount
	payFieldCount
)

// sendPaymentRequestMsg asks the root model to run the pay-then-record
// flow for the viewed creator.
type sendPaymentRequestMsg struct {
	message string
	amount  string
}

// feedEntry is one rendered line of a creator's supporter feed.
type feedEntry struct {
	who    string
	amount string
	text   string
}

// profileModel shows one creator's page: the feed, and the pay form when
// the viewer may pay (a supporter who is not the owner).
type profileModel struct {
	creator directory.Creator
	feed    []feedEntry
	canPay  bool

	inputs [payFieldCount]textinput.Model
	focus  int
	status pay.Status

	flash    string
	flashErr bool
}

func newProfileModel(creator directory.Creator, feed []feedEntry, canPay bool) profileModel {
	var inputs [payFieldCount]textinput.Model
	for i := range payFieldCount {
		ti := textinput.New()
		ti.Width = 40
		ti.Prompt = ""
		inputs[i] = ti
	}
	inputs[payFieldMessage].Placeholder = "say something nice..."
	inputs[payFieldMessage].CharLimit = 280
	inputs[payFieldAmount].Placeholder = "0.1"
	inputs[payFieldAmount].CharLimit = 20

	m := profileModel{
		creator: creator,
		feed:    feed,
		canPay:  canPay,
	}
	if canPay {
		m.inputs = inputs
		m.inputs[m.focus].Focus()
	}
	return m
}

func (m profileModel) Init() tea.Cmd {
	if m.canPay {
		return textinput.Blink
	}
	return nil
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case payStatusMsg:
		m.status = msg.status
		return m, nil

	case payResultMsg:
		return m.handleResult(msg)

	case flashMsg:
		m.flash = ""
		m.flashErr = false
		return m, nil
	}

	return m, nil
}

func (m profileModel) handleKey(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		return m, func() tea.Msg { return backMsg{} }
	}

	if !m.canPay {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			return m, func() tea.Msg { return refreshRequestMsg{} }
		}
		return m, nil
	}

	// a payment in flight owns the form
	if m.status != pay.StatusIdle {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		m.inputs[m.focus].Blur()
		if msg.Type == tea.KeyTab {
			m.focus = (m.focus + 1) % payFieldCount
		} else {
			m.focus = (m.focus + payFieldCount - 1) % payFieldCount
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

func (m profileModel) submit() (profileModel, tea.Cmd) {
	message := m.inputs[payFieldMessage].Value()
	amount := m.inputs[payFieldAmount].Value()

	return m, func() tea.Msg {
		return sendPaymentRequestMsg{message: message, amount: amount}
	}
}

func (m profileModel) handleResult(msg payResultMsg) (profileModel, tea.Cmd) {
	m.status = pay.StatusIdle

	if msg.err == nil {
		// success clears the form so the next payment starts clean
		m.inputs[payFieldMessage].SetValue("")
		m.inputs[payFieldAmount].SetValue("")
		m.flash = fmt.Sprintf("sent %s SOL to %s", msg.result.Lamports.Sol(), m.creator.Name)
		m.flashErr = false
		return m, clearFlashAfter()
	}

	var rf *pay.RecordFailedError
	if errors.As(msg.err, &rf) {
		// funds moved; keep this on screen until the user acts
		m.flash = rf.Error()
		m.flashErr = true
		return m, nil
	}

	m.flash = msg.err.Error()
	m.flashErr = true
	return m, clearFlashAfter()
}

func (m profileModel) View() string {
	s := "\n  " + zstyle.Title.Render(m.creator.Name) + "  " +
		zstyle.MutedText.Render("@"+m.creator.Username) + "\n\n"

	if len(m.feed) == 0 {
		s += "  " + zstyle.MutedText.Render("no supporters yet") + "\n"
	} else {
		s += "  " + zstyle.MutedText.Render("recent supporters") + "\n"
		for _, e := range m.feed {
			s += fmt.Sprintf("  %s %s\n", zstyle.Subtitle.Render(e.who),
				zstyle.MutedText.Render("bought "+e.amount+" SOL"))
			if e.text != "" {
				s += "    " + e.text + "\n"
			}
		}
	}

	if m.canPay {
		s += "\n  " + zstyle.Subtitle.Render("buy "+m.creator.Name+" some SOL") + "\n\n"
		s += "  " + zstyle.MutedText.Render("message") + "\n  " + m.inputs[payFieldMessage].View() + "\n"
		s += "  " + zstyle.MutedText.Render("amount (SOL)") + "\n  " + m.inputs[payFieldAmount].View() + "\n\n"
		s += "  " + zstyle.MutedText.Render("you will approve two transactions") + "\n"
	}

	s += "\n"
	switch {
	case m.status != pay.StatusIdle:
		s += "  " + zstyle.StatusWarn.Render(m.status.String()+"...") + "\n"
	case m.flash != "" && m.flashErr:
		s += "  " + zstyle.StatusErr.Render(m.flash) + "\n"
	case m.flash != "":
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	default:
		s += "\n"
	}

	return s
}
