// Package pay implements the two-step "transfer funds, then record
// message" flow. The two steps are independent remote operations with no
// cross-step atomicity: once the transfer confirms, a record failure
// leaves moved funds and no message, and that outcome has its own error
// type because resubmitting the whole flow would double-charge.
package pay

import (
	"context"
	"fmt"

	"github.com/zarlcorp/zsol/internal/ledger"
	"github.com/zarlcorp/zsol/internal/sol"
)

// Status reports orchestrator progress to the UI.
type Status int

const (
	StatusIdle Status = iota
	StatusSendingFunds
	StatusSendingMessage
)

func (s Status) String() string {
	switch s {
	case StatusSendingFunds:
		return "sending SOL"
	case StatusSendingMessage:
		return "recording message"
	}
	return "idle"
}

// Ledger is the remote surface the flow needs. Satisfied by
// *ledger.Client.
type Ledger interface {
	SubmitTransfer(ctx context.Context, signer ledger.Signer, to sol.Address, amount sol.Lamports) (ledger.Signature, error)
	SubmitAddMessage(ctx context.Context, signer ledger.Signer, creator sol.Address, message string, amount sol.Lamports) (ledger.Signature, error)
}

// Request describes one payment with its message.
type Request struct {
	Creator sol.Address
	Message string
	Amount  string // user-typed SOL amount, validated locally
}

// Result carries the submission handles of a fully-completed flow.
type Result struct {
	Lamports    sol.Lamports
	TransferSig ledger.Signature
	RecordSig   ledger.Signature
}

// RecordFailedError reports the partial-success terminal state: the
// transfer confirmed but the message record did not land. Funds have
// moved; the flow must not be retried wholesale.
type RecordFailedError struct {
	TransferSig ledger.Signature
	Amount      sol.Lamports
	Err         error
}

func (e *RecordFailedError) Error() string {
	return fmt.Sprintf("payment of %s SOL succeeded (signature %s) but recording the message failed: %v",
		e.Amount.Sol(), e.TransferSig, e.Err)
}

func (e *RecordFailedError) Unwrap() error { return e.Err }

// Send runs the flow. notify, when non-nil, receives each status change
// including the final reset to idle. Validation failures never reach the
// network.
func Send(ctx context.Context, l Ledger, signer ledger.Signer, req Request, notify func(Status)) (Result, error) {
	status := func(s Status) {
		if notify != nil {
			notify(s)
		}
	}

	// step 0: local validation, no network on failure
	amount, err := sol.ParseAmount(req.Amount)
	if err != nil {
		return Result{}, err
	}

	// step 1: move funds
	status(StatusSendingFunds)
	transferSig, err := l.SubmitTransfer(ctx, signer, req.Creator, amount)
	if err != nil {
		// nothing moved; safe to resubmit the whole flow later
		status(StatusIdle)
		return Result{}, fmt.Errorf("send funds: %w", err)
	}

	// step 2: record the message, independently signed
	status(StatusSendingMessage)
	recordSig, err := l.SubmitAddMessage(ctx, signer, req.Creator, req.Message, amount)
	if err != nil {
		status(StatusIdle)
		return Result{Lamports: amount, TransferSig: transferSig}, &RecordFailedError{
			TransferSig: transferSig,
			Amount:      amount,
			Err:         err,
		}
	}

	status(StatusIdle)
	return Result{Lamports: amount, TransferSig: transferSig, RecordSig: recordSig}, nil
}
