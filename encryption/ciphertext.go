// ciphertext.go - Encrypted balances and their wire and text forms.
//
// Wire form (36 bytes):
//
//	offset 0..12   nonce
//	offset 12..36  encrypted balance (8) + tag (16)
//
// Text form is standard padded base64 of the wire form.

package encryption

import (
	"encoding/base64"
	"fmt"
)

// AeCiphertextSize is the byte length of the wire form.
const AeCiphertextSize = NonceSize + CiphertextSize

// AeCiphertext is an encrypted balance. The zero value is a valid (but
// undecryptable) ciphertext.
type AeCiphertext struct {
	Nonce      [NonceSize]byte
	Ciphertext [CiphertextSize]byte
}

// Decrypt is shorthand for key.Decrypt(ct).
func (ct AeCiphertext) Decrypt(key *AeKey) (uint64, bool) {
	return decrypt(key, ct)
}

// ToBytes returns the 36-byte wire form.
func (ct AeCiphertext) ToBytes() [AeCiphertextSize]byte {
	var buf [AeCiphertextSize]byte
	copy(buf[:NonceSize], ct.Nonce[:])
	copy(buf[NonceSize:], ct.Ciphertext[:])
	return buf
}

// AeCiphertextFromBytes parses the wire form. It returns false unless b is
// exactly AeCiphertextSize bytes.
func AeCiphertextFromBytes(b []byte) (AeCiphertext, bool) {
	var ct AeCiphertext
	if len(b) != AeCiphertextSize {
		return ct, false
	}
	copy(ct.Nonce[:], b[:NonceSize])
	copy(ct.Ciphertext[:], b[NonceSize:])
	return ct, true
}

// String returns the base64 text form.
func (ct AeCiphertext) String() string {
	buf := ct.ToBytes()
	return base64.StdEncoding.EncodeToString(buf[:])
}

// ParseAeCiphertext parses the base64 text form.
func ParseAeCiphertext(s string) (AeCiphertext, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return AeCiphertext{}, fmt.Errorf("%w: %w", ErrInvalidCiphertext, err)
	}
	ct, ok := AeCiphertextFromBytes(raw)
	if !ok {
		return AeCiphertext{}, fmt.Errorf("%w: decoded %d bytes, want %d", ErrInvalidCiphertext, len(raw), AeCiphertextSize)
	}
	return ct, nil
}

// MarshalText implements encoding.TextMarshaler.
func (ct AeCiphertext) MarshalText() ([]byte, error) {
	return []byte(ct.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ct *AeCiphertext) UnmarshalText(text []byte) error {
	parsed, err := ParseAeCiphertext(string(text))
	if err != nil {
		return err
	}
	*ct = parsed
	return nil
}
