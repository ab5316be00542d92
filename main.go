// main.go - End-to-end walkthrough of confidential balances and proof instructions.
//
// This demonstrates how a wallet uses the two halves of the library:
//   - the owner derives the balance key for a token account from their signer
//   - a second "device" derives the same key from the same signer
//   - the available balance is encrypted, published and decrypted
//   - a withdraw proof is wrapped into a verify instruction that stores its
//     context, decoded again as the verifying program would see it
//   - the context state account is closed
//
// Usage:
//   go run main.go

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"zktoken/chain"
	"zktoken/encryption"
	"zktoken/proofdata"
	"zktoken/proofinstruction"
)

// =============================================================================
// SCENARIO
// =============================================================================

// Walkthrough records what the scenario produced.
type Walkthrough struct {
	Owner            chain.Pubkey
	TokenAccount     chain.Pubkey
	Balance          uint64
	Ciphertext       string
	Decrypted        uint64
	VerifyIx         chain.Instruction
	CloseIx          chain.Instruction
	DecodedType      proofinstruction.ProofInstruction
	DecodedRecordLen int
}

// RunWalkthrough runs the scenario for an owner whose keypair is expanded
// from ownerSeed.
func RunWalkthrough(logger zerolog.Logger, ownerSeed []byte, balance uint64) (*Walkthrough, error) {
	owner, err := chain.KeypairFromSeed(ownerSeed)
	if err != nil {
		return nil, fmt.Errorf("owner keypair: %w", err)
	}
	ownerPubkey, _ := owner.Pubkey()

	accountKeypair, err := chain.NewKeypair()
	if err != nil {
		return nil, fmt.Errorf("token account keypair: %w", err)
	}
	tokenAccount, _ := accountKeypair.Pubkey()

	w := &Walkthrough{Owner: ownerPubkey, TokenAccount: tokenAccount, Balance: balance}
	logger.Info().Str("owner", ownerPubkey.String()).Str("account", tokenAccount.String()).Msg("=== Key derivation ===")

	// 1. Derive the balance key on two devices
	key, err := encryption.NewAeKey(owner, tokenAccount)
	if err != nil {
		return nil, fmt.Errorf("deriving balance key: %w", err)
	}
	defer key.Zeroize()

	otherDevice, err := encryption.NewAeKey(owner, tokenAccount)
	if err != nil {
		return nil, fmt.Errorf("deriving balance key on second device: %w", err)
	}
	defer otherDevice.Zeroize()
	if !key.Equal(otherDevice) {
		return nil, errors.New("devices derived different balance keys")
	}
	logger.Info().Msg("both devices derived the same balance key")

	// A signer without a key must never produce key material
	if _, err := encryption.NewAeKey(chain.NewNullSigner(ownerPubkey), tokenAccount); !errors.Is(err, encryption.ErrDefaultSignature) {
		return nil, fmt.Errorf("null signer was not rejected: %v", err)
	}
	logger.Info().Msg("null signer rejected")

	// 2. Encrypt and publish the available balance
	logger.Info().Msg("=== Balance encryption ===")
	start := time.Now()
	ct := key.Encrypt(balance)
	w.Ciphertext = ct.String()
	logger.Info().Str("ciphertext", w.Ciphertext).Dur("took", time.Since(start)).Msg("encrypted balance")

	published, err := encryption.ParseAeCiphertext(w.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("parsing published ciphertext: %w", err)
	}
	decrypted, ok := otherDevice.Decrypt(published)
	if !ok {
		return nil, errors.New("second device could not decrypt the balance")
	}
	w.Decrypted = decrypted
	logger.Info().Uint64("balance", decrypted).Msg("second device decrypted balance")

	// 3. Wrap a withdraw proof into a verify instruction
	logger.Info().Msg("=== Proof instructions ===")
	contextAccount, err := chain.NewKeypair()
	if err != nil {
		return nil, fmt.Errorf("context account keypair: %w", err)
	}
	contextPubkey, _ := contextAccount.Pubkey()
	info := proofinstruction.ContextStateInfo{
		ContextStateAccount:   contextPubkey,
		ContextStateAuthority: ownerPubkey,
	}

	// Proof bytes come from the prover; the placeholder stands in for them.
	var withdraw proofdata.WithdrawData
	copy(withdraw.Context.Pubkey[:], ownerPubkey[:])
	w.VerifyIx = proofinstruction.NewVerifyWithdraw(&info, &withdraw)

	kind, ok := proofinstruction.InstructionType(w.VerifyIx.Data)
	if !ok {
		return nil, errors.New("verify instruction has no known type")
	}
	decoded, ok := proofinstruction.ProofData[proofdata.WithdrawData](w.VerifyIx.Data)
	if !ok {
		return nil, errors.New("verify instruction payload did not decode")
	}
	w.DecodedType = kind
	w.DecodedRecordLen = proofdata.Size(decoded)
	logger.Info().
		Stringer("instruction", kind).
		Int("data_bytes", len(w.VerifyIx.Data)).
		Int("accounts", len(w.VerifyIx.Accounts)).
		Msg("built verify instruction")

	// 4. Close the context state account once the context was consumed
	w.CloseIx = proofinstruction.NewCloseContextState(info, ownerPubkey)
	logger.Info().Int("accounts", len(w.CloseIx.Accounts)).Msg("built close instruction")

	return w, nil
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	var seed [chain.KeypairSeedSize]byte
	for i := range seed {
		seed[i] = byte(i)
	}

	w, err := RunWalkthrough(logger, seed[:], 1_000_000)
	if err != nil {
		logger.Error().Err(err).Msg("walkthrough failed")
		os.Exit(1)
	}
	fmt.Printf("\n=== Walkthrough Complete ===\n")
	fmt.Printf("Balance ciphertext: %s\n", w.Ciphertext)
	fmt.Printf("Verify instruction: %s, %d data bytes\n", w.DecodedType, len(w.VerifyIx.Data))
	fmt.Printf("Close instruction:  %x\n", w.CloseIx.Data)
}
