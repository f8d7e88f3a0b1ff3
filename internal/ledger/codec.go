package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/zarlcorp/zsol/internal/directory"
	"github.com/zarlcorp/zsol/internal/sol"
)

// The directory account and instruction payloads use a compact
// little-endian layout: u32 length-prefixed strings, u32 count-prefixed
// vectors, u64 lamport amounts. Addresses travel as their string form.

var errShortData = errors.New("truncated account data")

type writer struct {
	buf []byte
}

func (w *writer) u8(v byte) {
	w.buf = append(w.buf, v)
}

func (w *writer) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) bytes(b []byte) {
	w.u32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) u32() (uint32, error) {
	if r.off+4 > len(r.buf) {
		return 0, errShortData
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) u64() (uint64, error) {
	if r.off+8 > len(r.buf) {
		return 0, errShortData
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, nil
}

func (r *reader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if r.off+int(n) > len(r.buf) {
		return "", errShortData
	}
	s := string(r.buf[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

// encodeDirectory serializes a directory snapshot in account layout.
// The client never writes account data; this exists for tests and for
// fake ledgers.
func encodeDirectory(d directory.Directory) []byte {
	var w writer

	w.u32(uint32(len(d.Creators)))
	for _, c := range d.Creators {
		w.str(string(c.UserAddress))
		w.str(c.Username)
		w.str(c.Name)
	}

	w.u32(uint32(len(d.Supporters)))
	for _, s := range d.Supporters {
		w.str(string(s.UserAddress))
		w.str(s.Name)
	}

	w.u32(uint32(len(d.Messages)))
	for _, m := range d.Messages {
		w.str(string(m.CreatorAddress))
		w.str(string(m.SupporterAddress))
		w.str(m.Message)
		w.u64(uint64(m.Amount))
	}

	return w.buf
}

// decodeDirectory parses account data into a directory snapshot.
func decodeDirectory(data []byte) (directory.Directory, error) {
	r := &reader{buf: data}
	var d directory.Directory

	nc, err := r.u32()
	if err != nil {
		return d, fmt.Errorf("decode creators: %w", err)
	}
	for range nc {
		var c directory.Creator
		addr, err := r.str()
		if err != nil {
			return d, fmt.Errorf("decode creator address: %w", err)
		}
		c.UserAddress = sol.Address(addr)
		if c.Username, err = r.str(); err != nil {
			return d, fmt.Errorf("decode creator username: %w", err)
		}
		if c.Name, err = r.str(); err != nil {
			return d, fmt.Errorf("decode creator name: %w", err)
		}
		d.Creators = append(d.Creators, c)
	}

	ns, err := r.u32()
	if err != nil {
		return d, fmt.Errorf("decode supporters: %w", err)
	}
	for range ns {
		var s directory.Supporter
		addr, err := r.str()
		if err != nil {
			return d, fmt.Errorf("decode supporter address: %w", err)
		}
		s.UserAddress = sol.Address(addr)
		if s.Name, err = r.str(); err != nil {
			return d, fmt.Errorf("decode supporter name: %w", err)
		}
		d.Supporters = append(d.Supporters, s)
	}

	nm, err := r.u32()
	if err != nil {
		return d, fmt.Errorf("decode messages: %w", err)
	}
	for range nm {
		var m directory.Message
		creator, err := r.str()
		if err != nil {
			return d, fmt.Errorf("decode message creator: %w", err)
		}
		m.CreatorAddress = sol.Address(creator)
		supporter, err := r.str()
		if err != nil {
			return d, fmt.Errorf("decode message supporter: %w", err)
		}
		m.SupporterAddress = sol.Address(supporter)
		if m.Message, err = r.str(); err != nil {
			return d, fmt.Errorf("decode message text: %w", err)
		}
		amount, err := r.u64()
		if err != nil {
			return d, fmt.Errorf("decode message amount: %w", err)
		}
		m.Amount = sol.Lamports(amount)
		d.Messages = append(d.Messages, m)
	}

	return d, nil
}
