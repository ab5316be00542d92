// health.go - Self tests run by `aekey selftest`
package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"zktoken/chain"
	"zktoken/encryption"
	"zktoken/proofdata"
	"zktoken/proofinstruction"
)

// HealthStatus represents the outcome of a check
type HealthStatus string

const (
	Healthy   HealthStatus = "healthy"
	Unhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents the result of a single check
type ComponentHealth struct {
	Name      string        `json:"name"`
	Status    HealthStatus  `json:"status"`
	Message   string        `json:"message"`
	LastCheck time.Time     `json:"last_check"`
	Latency   time.Duration `json:"latency,omitempty"`
}

// SystemHealth represents the result of all checks
type SystemHealth struct {
	OverallStatus HealthStatus      `json:"overall_status"`
	Timestamp     time.Time         `json:"timestamp"`
	Components    []ComponentHealth `json:"components"`
	Version       string            `json:"version"`
}

// HealthChecker runs registered checks in registration order
type HealthChecker struct {
	mu       sync.Mutex
	version  string
	names    []string
	checkers map[string]func() error
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		version:  version,
		checkers: make(map[string]func() error),
	}
}

// RegisterComponent registers a check under name
func (hc *HealthChecker) RegisterComponent(name string, checker func() error) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if _, exists := hc.checkers[name]; !exists {
		hc.names = append(hc.names, name)
	}
	hc.checkers[name] = checker
}

// CheckHealth runs every check
func (hc *HealthChecker) CheckHealth() *SystemHealth {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	overallStatus := Healthy
	components := make([]ComponentHealth, 0, len(hc.names))

	for _, name := range hc.names {
		start := time.Now()
		err := hc.checkers[name]()
		component := ComponentHealth{
			Name:      name,
			Status:    Healthy,
			Message:   "OK",
			LastCheck: time.Now(),
			Latency:   time.Since(start),
		}
		if err != nil {
			component.Status = Unhealthy
			component.Message = err.Error()
			overallStatus = Unhealthy
		}
		components = append(components, component)
	}

	return &SystemHealth{
		OverallStatus: overallStatus,
		Timestamp:     time.Now(),
		Components:    components,
		Version:       hc.version,
	}
}

// registerSelfTests registers the standard checks. keyDir is checked for
// write access.
func registerSelfTests(hc *HealthChecker, keyDir string) {
	hc.RegisterComponent("entropy", checkEntropy)
	hc.RegisterComponent("cipher-known-answer", checkCipherKnownAnswer)
	hc.RegisterComponent("cipher-round-trip", checkCipherRoundTrip)
	hc.RegisterComponent("signer-derivation", checkSignerDerivation)
	hc.RegisterComponent("proof-codec", checkProofCodec)
	hc.RegisterComponent("key-dir", func() error { return checkKeyDir(keyDir) })
}

func checkEntropy() error {
	var a, b [32]byte
	if _, err := io.ReadFull(rand.Reader, a[:]); err != nil {
		return fmt.Errorf("reading random bytes: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		return fmt.Errorf("reading random bytes: %w", err)
	}
	if a == b {
		return fmt.Errorf("random source returned the same block twice")
	}
	return nil
}

// RFC 8452 appendix C.1: AES-128-GCM-SIV, 8-byte plaintext, no AAD.
const (
	katKey        = "01000000000000000000000000000000"
	katNonce      = "030000000000000000000000"
	katCiphertext = "b5d839330ac7b786578782fff6013b815b287c22493a364c"
)

func checkCipherKnownAnswer() error {
	raw, _ := hex.DecodeString(katNonce + katCiphertext)
	ct, ok := encryption.AeCiphertextFromBytes(raw)
	if !ok {
		return fmt.Errorf("malformed test vector")
	}
	keyBytes, _ := hex.DecodeString(katKey)
	key, err := encryption.AeKeyFromBytes(keyBytes)
	if err != nil {
		return err
	}
	defer key.Zeroize()

	amount, ok := key.Decrypt(ct)
	if !ok {
		return fmt.Errorf("test vector failed to authenticate")
	}
	if amount != 1 {
		return fmt.Errorf("test vector decrypted to %d, want 1", amount)
	}
	return nil
}

func checkCipherRoundTrip() error {
	key, err := encryption.GenerateAeKey()
	if err != nil {
		return err
	}
	defer key.Zeroize()

	for _, amount := range []uint64{0, 55, ^uint64(0)} {
		got, ok := key.Decrypt(key.Encrypt(amount))
		if !ok || got != amount {
			return fmt.Errorf("round trip of %d failed", amount)
		}
	}
	return nil
}

func checkSignerDerivation() error {
	kp, err := chain.KeypairFromSeed(bytes.Repeat([]byte{7}, chain.KeypairSeedSize))
	if err != nil {
		return err
	}
	var address chain.Pubkey
	a, err := encryption.NewAeKey(kp, address)
	if err != nil {
		return err
	}
	defer a.Zeroize()
	b, err := encryption.NewAeKey(kp, address)
	if err != nil {
		return err
	}
	defer b.Zeroize()
	if !a.Equal(b) {
		return fmt.Errorf("signer derivation is not deterministic")
	}
	return nil
}

func checkProofCodec() error {
	var data proofdata.PubkeyValidityData
	if _, err := io.ReadFull(rand.Reader, data.Proof[:]); err != nil {
		return err
	}
	ix := proofinstruction.NewVerifyPubkeyValidity(nil, &data)
	kind, ok := proofinstruction.InstructionType(ix.Data)
	if !ok || kind != proofinstruction.VerifyPubkeyValidity {
		return fmt.Errorf("instruction type did not survive encoding")
	}
	decoded, ok := proofinstruction.ProofData[proofdata.PubkeyValidityData](ix.Data)
	if !ok || *decoded != data {
		return fmt.Errorf("proof data did not survive encoding")
	}
	return nil
}

func checkKeyDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".selftest-*")
	if err != nil {
		return fmt.Errorf("key directory is not writable: %w", err)
	}
	name := tmp.Name()
	tmp.Close()
	return os.Remove(filepath.Clean(name))
}
