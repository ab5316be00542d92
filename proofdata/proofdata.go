// proofdata.go - Proof kinds and the raw record codec.
//
// Records are encoded as their fields laid end to end with no length prefix
// or padding. Decoding is exact: the input must be precisely the record's
// size or nothing is decoded.

package proofdata

import (
	"encoding/binary"
	"fmt"
)

// ProofType identifies the statement a record proves.
type ProofType uint8

const (
	ProofTypeUninitialized ProofType = iota
	ProofTypeZeroBalance
	ProofTypeWithdraw
	ProofTypeCiphertextCiphertextEquality
	ProofTypeTransfer
	ProofTypeTransferWithFee
	ProofTypePubkeyValidity
)

var proofTypeNames = [...]string{
	ProofTypeUninitialized:                "Uninitialized",
	ProofTypeZeroBalance:                  "ZeroBalance",
	ProofTypeWithdraw:                     "Withdraw",
	ProofTypeCiphertextCiphertextEquality: "CiphertextCiphertextEquality",
	ProofTypeTransfer:                     "Transfer",
	ProofTypeTransferWithFee:              "TransferWithFee",
	ProofTypePubkeyValidity:               "PubkeyValidity",
}

func (t ProofType) String() string {
	if int(t) < len(proofTypeNames) {
		return proofTypeNames[t]
	}
	return fmt.Sprintf("ProofType(%d)", uint8(t))
}

// Record is a proof record defined in this package.
type Record interface {
	ProofType() ProofType
	sealed()
}

// ZkProofData is a record whose public context is a C.
type ZkProofData[C any] interface {
	Record
	ContextData() *C
}

// Compile-time pairing of every record with its context.
var (
	_ ZkProofData[ZeroBalanceProofContext]                  = (*ZeroBalanceProofData)(nil)
	_ ZkProofData[WithdrawProofContext]                     = (*WithdrawData)(nil)
	_ ZkProofData[CiphertextCiphertextEqualityProofContext] = (*CiphertextCiphertextEqualityProofData)(nil)
	_ ZkProofData[TransferProofContext]                     = (*TransferData)(nil)
	_ ZkProofData[TransferWithFeeProofContext]              = (*TransferWithFeeData)(nil)
	_ ZkProofData[PubkeyValidityProofContext]               = (*PubkeyValidityData)(nil)
)

// Size returns the encoded size of r.
func Size(r Record) int {
	return binary.Size(r)
}

// Encode returns the raw bytes of r.
func Encode(r Record) []byte {
	return AppendEncode(make([]byte, 0, Size(r)), r)
}

// AppendEncode appends the raw bytes of r to buf.
func AppendEncode(buf []byte, r Record) []byte {
	out, err := binary.Append(buf, binary.LittleEndian, r)
	if err != nil {
		// Records hold only byte arrays, so this is unreachable.
		panic(fmt.Sprintf("proofdata: encoding %s record: %v", r.ProofType(), err))
	}
	return out
}

// Decode decodes b as a T. It returns false unless len(b) is exactly the
// size of T.
func Decode[T any, PT interface {
	*T
	Record
}](b []byte) (*T, bool) {
	out := PT(new(T))
	if len(b) != binary.Size(out) {
		return nil, false
	}
	n, err := binary.Decode(b, binary.LittleEndian, out)
	if err != nil || n != len(b) {
		return nil, false
	}
	return (*T)(out), true
}
