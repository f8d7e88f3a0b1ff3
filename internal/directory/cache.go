package directory

import "github.com/zarlcorp/zsol/internal/sol"

// Cache mirrors the last successfully fetched Directory. The snapshot is
// replaced wholesale on each fetch, never mutated in place; a network
// failure leaves the previous snapshot intact so a transient outage is
// never mistaken for an uninitialized account.
type Cache struct {
	dir     Directory
	version uint64
	loaded  bool
}

// NewCache returns an empty cache with no snapshot loaded.
func NewCache() *Cache {
	return &Cache{}
}

// Replace installs a new snapshot and bumps the version.
func (c *Cache) Replace(d Directory) {
	c.dir = d
	c.version++
	c.loaded = true
}

// Loaded reports whether at least one fetch has succeeded.
func (c *Cache) Loaded() bool { return c.loaded }

// Version returns the snapshot version, incremented on every Replace.
func (c *Cache) Version() uint64 { return c.version }

// Snapshot returns the current directory copy.
func (c *Cache) Snapshot() Directory { return c.dir }

// Creators returns the cached creator list.
func (c *Cache) Creators() []Creator { return c.dir.Creators }

// Creator returns the creator at index i, or false when out of range.
func (c *Cache) Creator(i int) (Creator, bool) {
	if i < 0 || i >= len(c.dir.Creators) {
		return Creator{}, false
	}
	return c.dir.Creators[i], true
}

// FindCreatorIndexByUsername returns the index of the creator whose
// username equals name exactly, or -1. Matching is not fuzzy.
func (c *Cache) FindCreatorIndexByUsername(name string) int {
	for i, cr := range c.dir.Creators {
		if cr.Username == name {
			return i
		}
	}
	return -1
}

// FindCreatorIndexByAddress returns the index of the creator owned by
// addr, or -1.
func (c *Cache) FindCreatorIndexByAddress(addr sol.Address) int {
	for i, cr := range c.dir.Creators {
		if cr.UserAddress == addr {
			return i
		}
	}
	return -1
}

// RoleOf classifies an address. Creator takes precedence when an address
// somehow registered as both.
func (c *Cache) RoleOf(addr sol.Address) Role {
	if c.FindCreatorIndexByAddress(addr) >= 0 {
		return RoleCreator
	}
	for _, s := range c.dir.Supporters {
		if s.UserAddress == addr {
			return RoleSupporter
		}
	}
	return RoleNone
}

// DisplayNameOf returns the profile name for a known creator or
// supporter, or the raw address string for unknown parties.
func (c *Cache) DisplayNameOf(addr sol.Address) string {
	if i := c.FindCreatorIndexByAddress(addr); i >= 0 {
		return c.dir.Creators[i].Name
	}
	for _, s := range c.dir.Supporters {
		if s.UserAddress == addr {
			return s.Name
		}
	}
	return string(addr)
}

// MessagesFor returns the messages addressed to a creator in insertion
// order. Recomputed per call from the current snapshot.
func (c *Cache) MessagesFor(creator sol.Address) []Message {
	var out []Message
	for _, m := range c.dir.Messages {
		if m.CreatorAddress == creator {
			out = append(out, m)
		}
	}
	return out
}

// UsernameTaken reports whether any cached creator already uses name.
// Advisory only: the cache may be stale, and two concurrent submissions
// can both pass this check. The program's own validation is authoritative.
func (c *Cache) UsernameTaken(name string) bool {
	return c.FindCreatorIndexByUsername(name) >= 0
}

// HasCreatorAccount reports whether addr already owns a creator record.
// Advisory only, same caveat as UsernameTaken.
func (c *Cache) HasCreatorAccount(addr sol.Address) bool {
	return c.FindCreatorIndexByAddress(addr) >= 0
}
