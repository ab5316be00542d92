// keyfile.go - JSON key files.
//
// A key file holds the raw key as a JSON array of 16 integers, e.g.
// [12,250,3,...]. This is the format other wallet tools read and write.

package encryption

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteJSON writes the key file form of k to w and returns the JSON text.
func (k *AeKey) WriteJSON(w io.Writer) (string, error) {
	ints := make([]int, AeKeySize)
	for i, b := range k.key {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	clear(ints)
	if err != nil {
		return "", fmt.Errorf("encoding key file: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("writing key file: %w", err)
	}
	return string(data), nil
}

// ReadAeKeyJSON reads a key file from r. The array must hold exactly 16
// integers in 0..255 and be followed only by whitespace.
func ReadAeKeyJSON(r io.Reader) (*AeKey, error) {
	var ints []int
	dec := json.NewDecoder(r)
	if err := dec.Decode(&ints); err != nil {
		return nil, fmt.Errorf("decoding key file: %w", err)
	}
	defer clear(ints)
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decoding key file: unexpected data after key array")
	}
	if len(ints) != AeKeySize {
		return nil, fmt.Errorf("%w: key file holds %d bytes, want %d", ErrInvalidKeyLength, len(ints), AeKeySize)
	}
	var material [AeKeySize]byte
	defer clear(material[:])
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("decoding key file: value %d at index %d is not a byte", v, i)
		}
		material[i] = byte(v)
	}
	return newAeKey(material[:]), nil
}

// WriteFile writes the key file to path, creating parent directories. The
// file is readable only by its owner.
func (k *AeKey) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating key directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating key file: %w", err)
	}
	if _, err := k.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadAeKeyFile reads a key file from path.
func ReadAeKeyFile(path string) (*AeKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening key file: %w", err)
	}
	defer f.Close()
	return ReadAeKeyJSON(f)
}
