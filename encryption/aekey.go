// aekey.go - Symmetric keys for encrypting account balances.
//
// An AeKey is derived, never transmitted. The usual path is NewAeKey: the
// wallet's signer signs a fixed message naming the token account, and the
// first 16 signature bytes become the key, so the same wallet recovers the
// same key on any device. Keys can also come from random bytes, a seed or a
// seed phrase.
//
// WARNING: key bytes are wiped by Zeroize and, as a fallback, when the key is
// garbage collected. Call Zeroize as soon as a key is no longer needed.

package encryption

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"runtime"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/sha3"

	"zktoken/chain"
)

const (
	// AeKeySize is the byte length of an AeKey (AES-128).
	AeKeySize = 16
	// MinimumSeedLen is the shortest seed accepted by AeKeyFromSeed.
	MinimumSeedLen = 16
)

// keyDerivationLabel is the instruction data of the message signed by
// NewAeKey. It separates AeKey derivation from every other use of the signer.
var keyDerivationLabel = []byte("AeKey")

// AeKey is a 16-byte authenticated-encryption key.
//
// An AeKey must not be copied by value; pass *AeKey.
type AeKey struct {
	key [AeKeySize]byte
}

func newAeKey(material []byte) *AeKey {
	k := &AeKey{}
	copy(k.key[:], material)
	runtime.SetFinalizer(k, (*AeKey).Zeroize)
	return k
}

// NewAeKey derives the key bound to address from signer. The signer signs a
// message holding a single instruction addressed to address with data
// "AeKey", paid for by the signer, and the key is the first 16 bytes of the
// signature. Deterministic signers always yield the same key.
//
// The signer is called once; retries are left to the caller.
func NewAeKey(signer chain.Signer, address chain.Pubkey) (*AeKey, error) {
	payer, err := signer.Pubkey()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPubkeyDoesNotExist, err)
	}

	message := DerivationMessage(payer, address)
	signature, err := signer.SignMessage(message)
	if err != nil {
		return nil, fmt.Errorf("signing key derivation message: %w", err)
	}
	defer clear(signature[:])

	var empty chain.Signature
	if subtle.ConstantTimeCompare(signature[:], empty[:]) == 1 {
		return nil, ErrDefaultSignature
	}
	return newAeKey(signature[:AeKeySize]), nil
}

// DerivationMessage returns the serialized message a signer signs to derive
// the AeKey for address.
func DerivationMessage(payer, address chain.Pubkey) []byte {
	ix := chain.Instruction{
		ProgramID: address,
		Data:      keyDerivationLabel,
	}
	return chain.NewMessage([]chain.Instruction{ix}, &payer).Serialize()
}

// NewRandomAeKey draws a key from rng, which must be a cryptographically
// secure source.
func NewRandomAeKey(rng io.Reader) (*AeKey, error) {
	var material [AeKeySize]byte
	defer clear(material[:])
	if _, err := io.ReadFull(rng, material[:]); err != nil {
		return nil, fmt.Errorf("reading random key material: %w", err)
	}
	return newAeKey(material[:]), nil
}

// GenerateAeKey draws a key from crypto/rand.
func GenerateAeKey() (*AeKey, error) {
	return NewRandomAeKey(rand.Reader)
}

// AeKeyFromSeed derives a key from at least MinimumSeedLen bytes of seed: the
// key is the first 16 bytes of SHA3-512(seed).
func AeKeyFromSeed(seed []byte) (*AeKey, error) {
	if len(seed) < MinimumSeedLen {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrSeedTooShort, len(seed), MinimumSeedLen)
	}
	digest := sha3.Sum512(seed)
	defer clear(digest[:])
	return newAeKey(digest[:AeKeySize]), nil
}

// AeKeyFromSeedPhraseAndPassphrase expands a BIP39 seed phrase and passphrase
// into a 64-byte seed and derives a key from it with AeKeyFromSeed. The
// phrase is not checked against the BIP39 word list.
func AeKeyFromSeedPhraseAndPassphrase(seedPhrase, passphrase string) (*AeKey, error) {
	seed := bip39.NewSeed(seedPhrase, passphrase)
	defer clear(seed)
	return AeKeyFromSeed(seed)
}

// AeKeyFromSeedAndDerivationPath always fails: AeKeys have no hierarchical
// derivation.
func AeKeyFromSeedAndDerivationPath(seed []byte, derivationPath string) (*AeKey, error) {
	return nil, ErrDerivationMethodNotSupported
}

// AeKeyFromBytes copies exactly AeKeySize bytes of raw key material.
func AeKeyFromBytes(b []byte) (*AeKey, error) {
	if len(b) != AeKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(b), AeKeySize)
	}
	return newAeKey(b), nil
}

// Encrypt encrypts amount under k with a fresh random nonce.
func (k *AeKey) Encrypt(amount uint64) AeCiphertext {
	return encrypt(k, amount)
}

// Decrypt recovers the amount in ct. It returns false if ct was not produced
// under k or was modified.
func (k *AeKey) Decrypt(ct AeCiphertext) (uint64, bool) {
	return decrypt(k, ct)
}

// Equal reports whether k and other hold the same key, in constant time.
func (k *AeKey) Equal(other *AeKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return subtle.ConstantTimeCompare(k.key[:], other.key[:]) == 1
}

// Zeroize overwrites the key bytes. The key is unusable afterwards.
func (k *AeKey) Zeroize() {
	clear(k.key[:])
}

// String never prints key material.
func (k *AeKey) String() string {
	return "AeKey(<redacted>)"
}
