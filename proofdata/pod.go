// pod.go - Fixed-width primitives that proof records are built from.
//
// Every type here is a byte array, so records composed of them have
// alignment 1 and no padding. Curve points and scalars are opaque: this
// package never interprets them.

package proofdata

import (
	"encoding/base64"
	"encoding/binary"
)

const (
	ElGamalPubkeySize      = 32
	ElGamalCiphertextSize  = 64
	PedersenCommitmentSize = 32
	DecryptHandleSize      = 32
)

// ElGamalPubkey is a compressed Ristretto point.
type ElGamalPubkey [ElGamalPubkeySize]byte

// ElGamalCiphertext is a Pedersen commitment followed by a decrypt handle.
type ElGamalCiphertext [ElGamalCiphertextSize]byte

// PedersenCommitment is a compressed Ristretto point.
type PedersenCommitment [PedersenCommitmentSize]byte

// DecryptHandle is a compressed Ristretto point.
type DecryptHandle [DecryptHandleSize]byte

func (p ElGamalPubkey) String() string { return base64.StdEncoding.EncodeToString(p[:]) }
func (c ElGamalCiphertext) String() string { return base64.StdEncoding.EncodeToString(c[:]) }

// Commitment returns the commitment half of c.
func (c ElGamalCiphertext) Commitment() PedersenCommitment {
	var out PedersenCommitment
	copy(out[:], c[:PedersenCommitmentSize])
	return out
}

// Handle returns the decrypt-handle half of c.
func (c ElGamalCiphertext) Handle() DecryptHandle {
	var out DecryptHandle
	copy(out[:], c[PedersenCommitmentSize:])
	return out
}

// NewElGamalCiphertext joins a commitment and a decrypt handle.
func NewElGamalCiphertext(commitment PedersenCommitment, handle DecryptHandle) ElGamalCiphertext {
	var out ElGamalCiphertext
	copy(out[:PedersenCommitmentSize], commitment[:])
	copy(out[PedersenCommitmentSize:], handle[:])
	return out
}

// PodU16 is a little-endian uint16 with alignment 1.
type PodU16 [2]byte

// PodU64 is a little-endian uint64 with alignment 1.
type PodU64 [8]byte

func NewPodU16(v uint16) PodU16 {
	var p PodU16
	binary.LittleEndian.PutUint16(p[:], v)
	return p
}

func (p PodU16) Uint16() uint16 { return binary.LittleEndian.Uint16(p[:]) }

func NewPodU64(v uint64) PodU64 {
	var p PodU64
	binary.LittleEndian.PutUint64(p[:], v)
	return p
}

func (p PodU64) Uint64() uint64 { return binary.LittleEndian.Uint64(p[:]) }

// Grouped ciphertexts share one commitment across several decrypt handles.
type (
	// GroupedElGamalCiphertext2Handles encrypts one amount to two pubkeys.
	GroupedElGamalCiphertext2Handles struct {
		Commitment PedersenCommitment
		Handles    [2]DecryptHandle
	}

	// GroupedElGamalCiphertext3Handles encrypts one amount to three pubkeys.
	GroupedElGamalCiphertext3Handles struct {
		Commitment PedersenCommitment
		Handles    [3]DecryptHandle
	}
)

// TransferAmountCiphertext is a transfer amount half encrypted to the
// source, destination and auditor.
type TransferAmountCiphertext GroupedElGamalCiphertext3Handles

// FeeEncryption is a fee amount half encrypted to the destination and the
// withdraw-withheld authority.
type FeeEncryption GroupedElGamalCiphertext2Handles

// FeeParameters is the mint's transfer fee configuration.
type FeeParameters struct {
	FeeRateBasisPoints PodU16
	MaximumFee         PodU64
}

// Opaque proof blobs, sized as the verifying program expects them.
type (
	ZeroBalanceProof                              [96]byte
	CiphertextCommitmentEqualityProof             [192]byte
	CiphertextCiphertextEqualityProof             [224]byte
	PubkeyValidityProof                           [64]byte
	FeeSigmaProof                                 [256]byte
	BatchedGroupedCiphertext2HandlesValidityProof [160]byte
	RangeProofU64                                 [672]byte
	RangeProofU128                                [736]byte
	RangeProofU256                                [800]byte
)
