// pubkey.go - Account addresses and signatures as they appear on the ledger.
//
// A Pubkey is the 32-byte address of an account or program. Its text form is base58,
// matching what wallets and explorers display.

package chain

import (
	"fmt"

	"github.com/mr-tron/base58"
)

const (
	// PubkeySize is the byte length of an account address.
	PubkeySize = 32
	// SignatureSize is the byte length of a transaction signature.
	SignatureSize = 64
)

// Pubkey is a 32-byte account address.
type Pubkey [PubkeySize]byte

// PubkeyFromBase58 parses the base58 text form of an address.
func PubkeyFromBase58(s string) (Pubkey, error) {
	var pk Pubkey
	raw, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("invalid base58 pubkey %q: %w", s, err)
	}
	if len(raw) != PubkeySize {
		return pk, fmt.Errorf("invalid pubkey length: got %d bytes, want %d", len(raw), PubkeySize)
	}
	copy(pk[:], raw)
	return pk, nil
}

// MustPubkeyFromBase58 is like PubkeyFromBase58 but panics on malformed input.
// Use it only for compile-time constants such as program ids.
func MustPubkeyFromBase58(s string) Pubkey {
	pk, err := PubkeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// PubkeyFromBytes copies a 32-byte slice into a Pubkey.
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	var pk Pubkey
	if len(b) != PubkeySize {
		return pk, fmt.Errorf("invalid pubkey length: got %d bytes, want %d", len(b), PubkeySize)
	}
	copy(pk[:], b)
	return pk, nil
}

// String returns the base58 text form.
func (pk Pubkey) String() string {
	return base58.Encode(pk[:])
}

// IsZero reports whether pk is the default (all-zero) address.
func (pk Pubkey) IsZero() bool {
	return pk == Pubkey{}
}

// Signature is a 64-byte signature over a serialized message.
// The zero value is the default signature, which some signers return
// when they cannot or will not sign.
type Signature [SignatureSize]byte

// String returns the base58 text form.
func (s Signature) String() string {
	return base58.Encode(s[:])
}
