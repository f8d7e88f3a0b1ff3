package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/zsol/internal/directory"
	"github.com/zarlcorp/zsol/internal/ledger"
	"github.com/zarlcorp/zsol/internal/pay"
	"github.com/zarlcorp/zsol/internal/sol"
	"github.com/zarlcorp/zsol/internal/wallet"
)

// remoteTimeout bounds every remote operation; the network can hang and
// nothing here retries.
const remoteTimeout = 60 * time.Second

// ledgerClient is the remote surface the TUI drives. Satisfied by
// *ledger.Client; tests substitute a fake.
type ledgerClient interface {
	pay.Ledger
	FetchDirectory(ctx context.Context) (directory.Directory, error)
	SubmitInitialize(ctx context.Context, signer ledger.Signer) (ledger.Signature, error)
	SubmitCreateCreator(ctx context.Context, signer ledger.Signer, username, name string) (ledger.Signature, error)
	SubmitCreateSupporter(ctx context.Context, signer ledger.Signer, name string) (ledger.Signature, error)
}

// connectedMsg reports a successful wallet connect.
type connectedMsg struct {
	addr sol.Address
}

// connectErrMsg reports a failed explicit connect.
type connectErrMsg struct {
	err error
}

// directoryMsg carries a fresh directory snapshot.
type directoryMsg struct {
	dir directory.Directory
}

// directoryMissingMsg means the account does not exist yet.
type directoryMissingMsg struct{}

// directoryErrMsg is a network-level fetch failure: the previous
// snapshot stays authoritative.
type directoryErrMsg struct {
	err error
}

// submittedMsg reports a confirmed state-mutating submission.
type submittedMsg struct {
	kind string // "initialize", "creator", "supporter"
}

// submitErrMsg reports a failed submission.
type submitErrMsg struct {
	kind string
	err  error
}

// payStatusMsg streams saga progress into the profile view.
type payStatusMsg struct {
	status pay.Status
	ch     chan pay.Status
}

// payResultMsg reports the completed (or partially completed) flow.
type payResultMsg struct {
	result pay.Result
	err    error
}

func connectCmd(session *wallet.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		addr, err := session.Connect(ctx)
		if err != nil {
			return connectErrMsg{err: err}
		}
		return connectedMsg{addr: addr}
	}
}

func autoConnectCmd(session *wallet.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		addr, ok := session.DetectAndAutoConnect(ctx)
		if !ok {
			return nil
		}
		return connectedMsg{addr: addr}
	}
}

func fetchDirectoryCmd(client ledgerClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		d, err := client.FetchDirectory(ctx)
		if err != nil {
			if errors.Is(err, ledger.ErrNotInitialized) {
				return directoryMissingMsg{}
			}
			return directoryErrMsg{err: err}
		}
		return directoryMsg{dir: d}
	}
}

func initializeCmd(client ledgerClient, signer ledger.Signer) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		if _, err := client.SubmitInitialize(ctx, signer); err != nil {
			return submitErrMsg{kind: "initialize", err: err}
		}
		return submittedMsg{kind: "initialize"}
	}
}

func createCreatorCmd(client ledgerClient, signer ledger.Signer, username, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		if _, err := client.SubmitCreateCreator(ctx, signer, username, name); err != nil {
			return submitErrMsg{kind: "creator", err: err}
		}
		return submittedMsg{kind: "creator"}
	}
}

func createSupporterCmd(client ledgerClient, signer ledger.Signer, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		if _, err := client.SubmitCreateSupporter(ctx, signer, name); err != nil {
			return submitErrMsg{kind: "supporter", err: err}
		}
		return submittedMsg{kind: "supporter"}
	}
}

// payCmd runs the two-phase flow, streaming statuses through ch before
// closing it and delivering the terminal result.
func payCmd(client ledgerClient, signer ledger.Signer, req pay.Request, ch chan pay.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*remoteTimeout)
		defer cancel()

		result, err := pay.Send(ctx, client, signer, req, func(s pay.Status) { ch <- s })
		close(ch)
		return payResultMsg{result: result, err: err}
	}
}

// watchPayStatus relays one status from the saga into the update loop.
// Re-armed by the root model after each delivery.
func watchPayStatus(ch chan pay.Status) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return payStatusMsg{status: s, ch: ch}
	}
}
