package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/zarlcorp/zsol/internal/sol"
)

const keypairID = "default"

// Keypair is the locally-custodied signing key. It lives in the
// encrypted store; the private key never leaves this package.
type Keypair struct {
	PublicKey  []byte    `json:"public_key"`
	PrivateKey []byte    `json:"private_key"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"created_at"`
}

// KeypairStore persists keypairs. Satisfied by a zstore collection.
type KeypairStore interface {
	Get(id string) (Keypair, error)
	Put(id string, kp Keypair) error
}

// Keystore is a Provider backed by an ed25519 keypair in the encrypted
// store. It stands in for a browser-injected wallet: the key material is
// the custody boundary, and signing happens here.
type Keystore struct {
	store KeypairStore
}

// NewKeystore creates a keystore provider over an opened collection.
func NewKeystore(store KeypairStore) *Keystore {
	return &Keystore{store: store}
}

// IsAvailable reports whether key custody is usable at all.
func (k *Keystore) IsAvailable() bool {
	return k != nil && k.store != nil
}

// Connect returns the stored identity. With trustedOnly set it succeeds
// only when a keypair already exists; an explicit connect generates and
// persists one on first use.
func (k *Keystore) Connect(_ context.Context, trustedOnly bool) (sol.Address, error) {
	if !k.IsAvailable() {
		return "", ErrUnavailable
	}

	kp, err := k.store.Get(keypairID)
	if err == nil {
		return sol.Address(kp.Address), nil
	}

	if trustedOnly {
		// silent connect never creates keys
		return "", ErrRejected
	}

	kp, err = generateKeypair()
	if err != nil {
		return "", fmt.Errorf("generate keypair: %w", err)
	}
	if err := k.store.Put(keypairID, kp); err != nil {
		return "", fmt.Errorf("persist keypair: %w", err)
	}

	return sol.Address(kp.Address), nil
}

// Sign produces an ed25519 signature over the transaction message.
func (k *Keystore) Sign(message []byte) ([]byte, error) {
	if !k.IsAvailable() {
		return nil, ErrUnavailable
	}

	kp, err := k.store.Get(keypairID)
	if err != nil {
		return nil, fmt.Errorf("load keypair: %w", err)
	}
	if len(kp.PrivateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("malformed keypair for %s", kp.Address)
	}

	return ed25519.Sign(ed25519.PrivateKey(kp.PrivateKey), message), nil
}

func generateKeypair() (Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Keypair{}, err
	}

	return Keypair{
		PublicKey:  pub,
		PrivateKey: priv,
		Address:    base58Encode(pub),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// base58Encode renders a public key in the address alphabet.
func base58Encode(b []byte) string {
	n := new(big.Int).SetBytes(b)
	radix := big.NewInt(58)
	mod := new(big.Int)

	var out []byte
	for n.Sign() > 0 {
		n.DivMod(n, radix, mod)
		out = append(out, base58Alphabet[mod.Int64()])
	}
	// preserve leading zero bytes
	for _, v := range b {
		if v != 0 {
			break
		}
		out = append(out, base58Alphabet[0])
	}

	// reverse
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
