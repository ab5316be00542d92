// instruction.go - Instructions for the zk token proof program.
//
// Instruction data is one discriminant byte followed by the raw proof record.
// Each verify instruction accepts exactly one record type; the discriminant
// is always derived from the record, so a record cannot be sent under the
// wrong instruction.

package proofinstruction

import (
	"fmt"
	"reflect"

	"zktoken/chain"
	"zktoken/proofdata"
)

// =============================================================================
// INSTRUCTION SET
// =============================================================================

// ProofInstruction is the on-wire discriminant. Values are append-only.
type ProofInstruction uint8

const (
	// CloseContextState closes a proof context state account.
	//
	// Accounts:
	//   0. [writable] the context state account
	//   1. [writable] the destination account for the reclaimed lamports
	//   2. [signer] the context state authority
	CloseContextState ProofInstruction = iota

	// The verify instructions below optionally store the verified context.
	//
	// Accounts, when storing the context:
	//   0. [writable] the context state account
	//   1. [] the context state authority
	// Otherwise none.

	VerifyZeroBalance                  // proofdata.ZeroBalanceProofData
	VerifyWithdraw                     // proofdata.WithdrawData
	VerifyCiphertextCiphertextEquality // proofdata.CiphertextCiphertextEqualityProofData
	VerifyTransfer                     // proofdata.TransferData
	VerifyTransferWithFee              // proofdata.TransferWithFeeData
	VerifyPubkeyValidity               // proofdata.PubkeyValidityData
)

// ProgramID is the address of the zk token proof program.
var ProgramID = chain.MustPubkeyFromBase58("ZkTokenProof1111111111111111111111111111111")

var instructionNames = [...]string{
	CloseContextState:                  "CloseContextState",
	VerifyZeroBalance:                  "VerifyZeroBalance",
	VerifyWithdraw:                     "VerifyWithdraw",
	VerifyCiphertextCiphertextEquality: "VerifyCiphertextCiphertextEquality",
	VerifyTransfer:                     "VerifyTransfer",
	VerifyTransferWithFee:              "VerifyTransferWithFee",
	VerifyPubkeyValidity:               "VerifyPubkeyValidity",
}

// verifyInstructions maps each proof type to the instruction that verifies
// it. The mapping is one to one.
var verifyInstructions = map[proofdata.ProofType]ProofInstruction{
	proofdata.ProofTypeZeroBalance:                  VerifyZeroBalance,
	proofdata.ProofTypeWithdraw:                     VerifyWithdraw,
	proofdata.ProofTypeCiphertextCiphertextEquality: VerifyCiphertextCiphertextEquality,
	proofdata.ProofTypeTransfer:                     VerifyTransfer,
	proofdata.ProofTypeTransferWithFee:              VerifyTransferWithFee,
	proofdata.ProofTypePubkeyValidity:               VerifyPubkeyValidity,
}

func (p ProofInstruction) valid() bool {
	return int(p) < len(instructionNames)
}

func (p ProofInstruction) String() string {
	if p.valid() {
		return instructionNames[p]
	}
	return fmt.Sprintf("ProofInstruction(%d)", uint8(p))
}

// ProofType returns the proof verified by p, or ProofTypeUninitialized for
// CloseContextState and unknown values.
func (p ProofInstruction) ProofType() proofdata.ProofType {
	for kind, ix := range verifyInstructions {
		if ix == p {
			return kind
		}
	}
	return proofdata.ProofTypeUninitialized
}

// =============================================================================
// ENCODING
// =============================================================================

// ContextStateInfo names the account a verified context is stored in and the
// authority allowed to close it.
type ContextStateInfo struct {
	ContextStateAccount   chain.Pubkey
	ContextStateAuthority chain.Pubkey
}

// EncodeVerifyProof builds the verify instruction for data. When info is nil
// the program only verifies the proof; otherwise it also stores the context
// in info.ContextStateAccount. data must be non-nil; a nil record panics.
func EncodeVerifyProof(info *ContextStateInfo, data proofdata.Record) chain.Instruction {
	if data == nil {
		panic("proofinstruction: nil proof record")
	}
	if reflect.ValueOf(data).IsNil() {
		panic(fmt.Sprintf("proofinstruction: nil %s record", data.ProofType()))
	}
	ix, ok := verifyInstructions[data.ProofType()]
	if !ok {
		panic(fmt.Sprintf("proofinstruction: no verify instruction for %s", data.ProofType()))
	}

	var accounts []chain.AccountMeta
	if info != nil {
		accounts = []chain.AccountMeta{
			chain.NewAccountMeta(info.ContextStateAccount, false),
			chain.NewReadonlyAccountMeta(info.ContextStateAuthority, false),
		}
	}

	buf := make([]byte, 0, 1+proofdata.Size(data))
	buf = append(buf, byte(ix))
	return chain.Instruction{
		ProgramID: ProgramID,
		Accounts:  accounts,
		Data:      proofdata.AppendEncode(buf, data),
	}
}

// NewCloseContextState builds the instruction that closes info's context
// state account and sends its lamports to destination. The authority must
// sign.
func NewCloseContextState(info ContextStateInfo, destination chain.Pubkey) chain.Instruction {
	return chain.Instruction{
		ProgramID: ProgramID,
		Accounts: []chain.AccountMeta{
			chain.NewAccountMeta(info.ContextStateAccount, false),
			chain.NewAccountMeta(destination, false),
			chain.NewReadonlyAccountMeta(info.ContextStateAuthority, true),
		},
		Data: []byte{byte(CloseContextState)},
	}
}

// NewVerifyZeroBalance builds the instruction verifying a zero balance proof.
func NewVerifyZeroBalance(info *ContextStateInfo, data *proofdata.ZeroBalanceProofData) chain.Instruction {
	return EncodeVerifyProof(info, data)
}

// NewVerifyWithdraw builds the instruction verifying a withdraw proof.
func NewVerifyWithdraw(info *ContextStateInfo, data *proofdata.WithdrawData) chain.Instruction {
	return EncodeVerifyProof(info, data)
}

// NewVerifyCiphertextCiphertextEquality builds the instruction verifying that
// two ciphertexts encrypt the same amount.
func NewVerifyCiphertextCiphertextEquality(info *ContextStateInfo, data *proofdata.CiphertextCiphertextEqualityProofData) chain.Instruction {
	return EncodeVerifyProof(info, data)
}

// NewVerifyTransfer builds the instruction verifying a transfer proof.
func NewVerifyTransfer(info *ContextStateInfo, data *proofdata.TransferData) chain.Instruction {
	return EncodeVerifyProof(info, data)
}

// NewVerifyTransferWithFee builds the instruction verifying a transfer proof
// with fee.
func NewVerifyTransferWithFee(info *ContextStateInfo, data *proofdata.TransferWithFeeData) chain.Instruction {
	return EncodeVerifyProof(info, data)
}

// NewVerifyPubkeyValidity builds the instruction verifying that an ElGamal
// public key is well formed.
func NewVerifyPubkeyValidity(info *ContextStateInfo, data *proofdata.PubkeyValidityData) chain.Instruction {
	return EncodeVerifyProof(info, data)
}

// =============================================================================
// DECODING
// =============================================================================

// InstructionType reads the discriminant of instruction data. It returns
// false for empty input and for discriminants this package does not know,
// which callers should treat as "some other instruction".
func InstructionType(input []byte) (ProofInstruction, bool) {
	if len(input) == 0 {
		return 0, false
	}
	p := ProofInstruction(input[0])
	if !p.valid() {
		return 0, false
	}
	return p, true
}

// ProofData decodes the record following the discriminant. It returns false
// if input is empty or the remainder is not exactly the size of T.
func ProofData[T any, PT interface {
	*T
	proofdata.Record
}](input []byte) (*T, bool) {
	if len(input) == 0 {
		return nil, false
	}
	return proofdata.Decode[T, PT](input[1:])
}
