// Package directory defines the shared on-chain directory record and a
// process-local cache of it.
package directory

import "github.com/zarlcorp/zsol/internal/sol"

// Creator is a registered creator profile.
type Creator struct {
	UserAddress sol.Address `json:"user_address"`
	Username    string      `json:"username"`
	Name        string      `json:"name"`
}

// Supporter is a registered supporter profile.
type Supporter struct {
	UserAddress sol.Address `json:"user_address"`
	Name        string      `json:"name"`
}

// Message pairs a payment amount with free text, addressed to a creator.
// Messages are append-only and immutable once written.
type Message struct {
	CreatorAddress   sol.Address  `json:"creator_address"`
	SupporterAddress sol.Address  `json:"supporter_address"`
	Message          string       `json:"message"`
	Amount           sol.Lamports `json:"amount"`
}

// Directory is the aggregate remote record. The ledger account owns it;
// clients hold an eventually-consistent read-only copy.
type Directory struct {
	Creators   []Creator   `json:"creators"`
	Supporters []Supporter `json:"supporters"`
	Messages   []Message   `json:"messages"`
}

// Role classifies an address against the directory.
type Role int

const (
	RoleNone Role = iota
	RoleCreator
	RoleSupporter
)

func (r Role) String() string {
	switch r {
	case RoleCreator:
		return "creator"
	case RoleSupporter:
		return "supporter"
	}
	return "none"
}
