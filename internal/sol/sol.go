// Package sol holds domain primitives for native-currency amounts and
// wallet addresses.
package sol

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// LamportsPerSol is the number of lamports in one SOL.
const LamportsPerSol = 1_000_000_000

// Address is an opaque public address identifying a wallet.
type Address string

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool { return a == "" }

// Short returns an abbreviated form for display, e.g. "3nF9…8kQz".
func (a Address) Short() string {
	s := string(a)
	if len(s) <= 12 {
		return s
	}
	return s[:4] + "…" + s[len(s)-4:]
}

// Lamports is an amount in the smallest currency unit.
type Lamports uint64

// Sol formats the amount in SOL with trailing zeros trimmed.
func (l Lamports) Sol() string {
	whole := uint64(l) / LamportsPerSol
	frac := uint64(l) % LamportsPerSol

	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}

	s := fmt.Sprintf("%d.%09d", whole, frac)
	return strings.TrimRight(s, "0")
}

// ErrInvalidAmount is returned for amount strings that are malformed,
// zero, or more precise than one lamport.
var ErrInvalidAmount = errors.New("invalid amount")

// amountPattern accepts strictly-positive decimal strings like
// "1", "0.5", ".25". A bare "0" passes the pattern but is rejected
// separately because zero-value payments are not allowed.
var amountPattern = regexp.MustCompile(`^[0-9]*\.?[0-9]+$`)

// ParseAmount converts a user-typed SOL amount into lamports.
// Parsing is exact decimal arithmetic; no floats.
func ParseAmount(s string) (Lamports, error) {
	if !amountPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if s == "0" {
		return 0, fmt.Errorf("%w: zero amount", ErrInvalidAmount)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 9 {
		return 0, fmt.Errorf("%w: %q exceeds lamport precision", ErrInvalidAmount, s)
	}

	var total uint64
	if whole != "" {
		w, err := strconv.ParseUint(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		if w > math.MaxUint64/LamportsPerSol {
			return 0, fmt.Errorf("%w: %q exceeds representable lamports", ErrInvalidAmount, s)
		}
		total = w * LamportsPerSol
	}

	if frac != "" {
		// right-pad to nine digits so "5" means 500_000_000
		f, err := strconv.ParseUint(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		if total > math.MaxUint64-f {
			return 0, fmt.Errorf("%w: %q exceeds representable lamports", ErrInvalidAmount, s)
		}
		total += f
	}

	if total == 0 {
		return 0, fmt.Errorf("%w: zero amount", ErrInvalidAmount)
	}

	return Lamports(total), nil
}
