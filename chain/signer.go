// signer.go - Signing credentials.
//
// Signer is the abstraction wallets implement for hardware devices, remote
// signers and local keypairs. Keypair is an in-memory Ed25519 signer, the
// scheme ledger accounts use, so a Keypair expanded from a wallet's 32-byte
// seed has the wallet's address and produces the wallet's signatures.
// Ed25519 signatures are deterministic, so anything derived from them is
// reproducible.

package chain

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Signer produces signatures over serialized messages.
type Signer interface {
	// Pubkey returns the address of the signing key.
	Pubkey() (Pubkey, error)
	// SignMessage signs the serialized message. Implementations may or may
	// not be deterministic.
	SignMessage(message []byte) (Signature, error)
}

// SignerError reports a failure inside a Signer implementation.
type SignerError struct {
	Op  string
	Err error
}

func (e *SignerError) Error() string {
	return fmt.Sprintf("signer: %s: %v", e.Op, e.Err)
}

func (e *SignerError) Unwrap() error { return e.Err }

// NullSigner knows an address but holds no key. It "signs" every message
// with the default signature.
type NullSigner struct {
	pubkey Pubkey
}

// NewNullSigner returns a NullSigner for pubkey.
func NewNullSigner(pubkey Pubkey) *NullSigner {
	return &NullSigner{pubkey: pubkey}
}

// Pubkey returns the configured address.
func (s *NullSigner) Pubkey() (Pubkey, error) {
	return s.pubkey, nil
}

// SignMessage returns the default signature.
func (s *NullSigner) SignMessage([]byte) (Signature, error) {
	return Signature{}, nil
}

// KeypairSeedSize is the number of seed bytes a Keypair is expanded from.
const KeypairSeedSize = ed25519.SeedSize

// Keypair is an in-memory Ed25519 signing key.
type Keypair struct {
	priv   ed25519.PrivateKey
	pubkey Pubkey
}

// NewKeypair generates a keypair from crypto/rand.
func NewKeypair() (*Keypair, error) {
	var seed [KeypairSeedSize]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return nil, fmt.Errorf("generating keypair seed: %w", err)
	}
	defer clear(seed[:])
	return KeypairFromSeed(seed[:])
}

// KeypairFromSeed expands a 32-byte Ed25519 seed into a keypair, as wallets
// do for their keypair files.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != KeypairSeedSize {
		return nil, fmt.Errorf("invalid keypair seed length: got %d bytes, want %d", len(seed), KeypairSeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pubkey, err := PubkeyFromBytes(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Keypair{priv: priv, pubkey: pubkey}, nil
}

// Pubkey returns the account address of the keypair.
func (k *Keypair) Pubkey() (Pubkey, error) {
	return k.pubkey, nil
}

// SignMessage signs message. The result depends only on the key and the
// message.
func (k *Keypair) SignMessage(message []byte) (Signature, error) {
	var sig Signature
	raw := ed25519.Sign(k.priv, message)
	if len(raw) != SignatureSize {
		return sig, &SignerError{Op: "sign", Err: fmt.Errorf("unexpected signature length %d", len(raw))}
	}
	copy(sig[:], raw)
	return sig, nil
}

// Zeroize overwrites the private key. The keypair cannot sign afterwards.
func (k *Keypair) Zeroize() {
	clear(k.priv)
}

// Verify reports whether sig is a valid signature by pubkey over message.
func Verify(pubkey Pubkey, message []byte, sig Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pubkey[:]), message, sig[:])
}

// ErrNoSigner is returned by signers that have no key available.
var ErrNoSigner = errors.New("no signer available")
