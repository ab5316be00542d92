// errors.go - Key derivation and parsing errors.

package encryption

import "errors"

var (
	// ErrDerivationMethodNotSupported is returned for hierarchical derivation
	// paths, which AeKey does not support.
	ErrDerivationMethodNotSupported = errors.New("key derivation method not supported")

	// ErrPubkeyDoesNotExist is returned when the signer cannot report its
	// address.
	ErrPubkeyDoesNotExist = errors.New("pubkey does not exist")

	// ErrDefaultSignature is returned when a signer answers with the default
	// signature, which carries no entropy.
	ErrDefaultSignature = errors.New("rejecting default signature")

	// ErrSeedTooShort is returned for seeds shorter than MinimumSeedLen.
	ErrSeedTooShort = errors.New("seed is too short")

	// ErrInvalidKeyLength is returned when raw key material is not
	// exactly AeKeySize bytes.
	ErrInvalidKeyLength = errors.New("invalid ae key length")

	// ErrInvalidCiphertext is returned when parsing a ciphertext that does
	// not decode to exactly AeCiphertextSize bytes.
	ErrInvalidCiphertext = errors.New("invalid ae ciphertext")
)
