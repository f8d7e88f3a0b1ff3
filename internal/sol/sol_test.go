package sol

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want Lamports
	}{
		{"1", 1_000_000_000},
		{"0.5", 500_000_000},
		{".25", 250_000_000},
		{"2.000000001", 2_000_000_001},
		{"0.000000001", 1},
		{"10", 10_000_000_000},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if err != nil {
			t.Errorf("ParseAmount(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseAmountRejects(t *testing.T) {
	bad := []string{
		"",
		"0",
		"0.0",
		"00.000",
		"-1",
		"1.2.3",
		"abc",
		"1e9",
		"1,5",
		" 1",
		"1 ",
		"0.0000000001",          // below one lamport
		"20000000000",           // overflows uint64 lamports
		"18446744073.709551616", // one lamport past the uint64 ceiling
	}

	for _, in := range bad {
		if _, err := ParseAmount(in); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseAmount(%q) = %v, want ErrInvalidAmount", in, err)
		}
	}
}

func TestLamportsSol(t *testing.T) {
	tests := []struct {
		in   Lamports
		want string
	}{
		{1_000_000_000, "1"},
		{500_000_000, "0.5"},
		{1_500_000_000, "1.5"},
		{1, "0.000000001"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := tt.in.Sol(); got != tt.want {
			t.Errorf("%d.Sol() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAddressShort(t *testing.T) {
	long := Address("4Nd1mYvNQvGdNkVRfMbP2tWQV3x7CUqzci8mVZXLmDfR")
	short := long.Short()
	if len(short) >= len(long) {
		t.Errorf("Short() did not abbreviate: %q", short)
	}

	tiny := Address("abcd")
	if tiny.Short() != "abcd" {
		t.Errorf("short address should pass through, got %q", tiny.Short())
	}
}
