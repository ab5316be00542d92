// cipher.go - AES-128-GCM-SIV over fixed-size balances.
//
// Balances are always 8 bytes and nonces always 12, so ciphertexts have a
// constant size and need no framing. GCM-SIV is nonce-misuse resistant: a
// repeated nonce leaks only whether two balances are equal.

package encryption

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	siv "github.com/secure-io/siv-go"
)

const (
	// NonceSize is the byte length of a GCM-SIV nonce.
	NonceSize = 12
	// TagSize is the byte length of the authentication tag.
	TagSize = 16
	// PlaintextSize is the byte length of an encoded balance.
	PlaintextSize = 8
	// CiphertextSize is the byte length of an encrypted balance with its tag.
	CiphertextSize = PlaintextSize + TagSize
)

func newAEAD(k *AeKey) cipher.AEAD {
	aead, err := siv.NewGCM(k.key[:])
	if err != nil {
		// Only reachable with a key of the wrong size.
		panic(fmt.Sprintf("encryption: AES-GCM-SIV setup: %v", err))
	}
	return aead
}

func encrypt(k *AeKey, amount uint64) AeCiphertext {
	var plaintext [PlaintextSize]byte
	binary.LittleEndian.PutUint64(plaintext[:], amount)

	var ct AeCiphertext
	if _, err := io.ReadFull(rand.Reader, ct.Nonce[:]); err != nil {
		clear(plaintext[:])
		panic(fmt.Sprintf("encryption: reading nonce: %v", err))
	}

	sealed := newAEAD(k).Seal(nil, ct.Nonce[:], plaintext[:], nil)
	clear(plaintext[:])
	if len(sealed) != CiphertextSize {
		panic(fmt.Sprintf("encryption: sealed %d bytes, want %d", len(sealed), CiphertextSize))
	}
	copy(ct.Ciphertext[:], sealed)
	return ct
}

func decrypt(k *AeKey, ct AeCiphertext) (uint64, bool) {
	plaintext, err := newAEAD(k).Open(nil, ct.Nonce[:], ct.Ciphertext[:], nil)
	if err != nil || len(plaintext) != PlaintextSize {
		return 0, false
	}
	amount := binary.LittleEndian.Uint64(plaintext)
	clear(plaintext)
	return amount, true
}
