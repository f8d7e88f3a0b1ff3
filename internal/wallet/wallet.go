// Package wallet manages the connection to a key-custody provider and
// exposes the current public identity.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/zarlcorp/zsol/internal/sol"
)

var (
	// ErrUnavailable means no provider is present.
	ErrUnavailable = errors.New("wallet provider unavailable")
	// ErrRejected means the provider or the user declined the request.
	// Rejection is terminal for that attempt; there is no retry.
	ErrRejected = errors.New("wallet request rejected")
	// ErrNotConnected means a signing operation ran without an identity.
	ErrNotConnected = errors.New("wallet not connected")
)

// Provider is the external key custodian. Connect with trustedOnly set
// succeeds silently only when the provider already trusts this client.
type Provider interface {
	IsAvailable() bool
	Connect(ctx context.Context, trustedOnly bool) (sol.Address, error)
	Sign(message []byte) ([]byte, error)
}

// Session tracks the connected identity for the lifetime of the process.
// The zero identity means disconnected.
type Session struct {
	provider Provider
	identity sol.Address
}

// NewSession creates a disconnected session over a provider.
func NewSession(p Provider) *Session {
	return &Session{provider: p}
}

// DetectAndAutoConnect attempts a silent connection. A missing provider
// or a provider that does not yet trust us leaves the session
// disconnected without error.
func (s *Session) DetectAndAutoConnect(ctx context.Context) (sol.Address, bool) {
	if s.provider == nil || !s.provider.IsAvailable() {
		return "", false
	}

	addr, err := s.provider.Connect(ctx, true)
	if err != nil {
		return "", false
	}

	s.identity = addr
	return addr, true
}

// Connect prompts the provider explicitly.
func (s *Session) Connect(ctx context.Context) (sol.Address, error) {
	if s.provider == nil || !s.provider.IsAvailable() {
		return "", fmt.Errorf("connect: %w", ErrUnavailable)
	}

	addr, err := s.provider.Connect(ctx, false)
	if err != nil {
		return "", fmt.Errorf("connect: %w", err)
	}

	s.identity = addr
	return addr, nil
}

// Disconnect clears the current identity.
func (s *Session) Disconnect() {
	s.identity = ""
}

// Connected reports whether an identity is present.
func (s *Session) Connected() bool {
	return !s.identity.IsZero()
}

// Identity returns the connected public address, or the zero address.
func (s *Session) Identity() sol.Address {
	return s.identity
}

// Address implements ledger.Signer.
func (s *Session) Address() sol.Address {
	return s.identity
}

// Sign delegates to the provider. It never signs while disconnected.
func (s *Session) Sign(message []byte) ([]byte, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	sig, err := s.provider.Sign(message)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return sig, nil
}
