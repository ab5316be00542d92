// records.go - Proof records, one per verifiable statement.
//
// Each record is a public context followed by the proof over it. The
// verifying program checks the proof and, when asked, stores the context in a
// context state account.

package proofdata

// ZeroBalanceProofContext states that Ciphertext, encrypted under Pubkey,
// holds zero.
type ZeroBalanceProofContext struct {
	Pubkey     ElGamalPubkey
	Ciphertext ElGamalCiphertext
}

type ZeroBalanceProofData struct {
	Context ZeroBalanceProofContext
	Proof   ZeroBalanceProof
}

func (*ZeroBalanceProofData) ProofType() ProofType { return ProofTypeZeroBalance }
func (d *ZeroBalanceProofData) ContextData() *ZeroBalanceProofContext {
	return &d.Context
}
func (*ZeroBalanceProofData) sealed() {}

// WithdrawProofContext states that FinalCiphertext, the balance left after a
// withdrawal, is a valid non-negative amount.
type WithdrawProofContext struct {
	Pubkey          ElGamalPubkey
	FinalCiphertext ElGamalCiphertext
}

type WithdrawProof struct {
	Commitment    PedersenCommitment
	EqualityProof CiphertextCommitmentEqualityProof
	RangeProof    RangeProofU64
}

type WithdrawData struct {
	Context WithdrawProofContext
	Proof   WithdrawProof
}

func (*WithdrawData) ProofType() ProofType { return ProofTypeWithdraw }
func (d *WithdrawData) ContextData() *WithdrawProofContext { return &d.Context }
func (*WithdrawData) sealed() {}

// CiphertextCiphertextEqualityProofContext states that two ciphertexts under
// different pubkeys encrypt the same amount.
type CiphertextCiphertextEqualityProofContext struct {
	SourcePubkey          ElGamalPubkey
	DestinationPubkey     ElGamalPubkey
	SourceCiphertext      ElGamalCiphertext
	DestinationCiphertext ElGamalCiphertext
}

type CiphertextCiphertextEqualityProofData struct {
	Context CiphertextCiphertextEqualityProofContext
	Proof   CiphertextCiphertextEqualityProof
}

func (*CiphertextCiphertextEqualityProofData) ProofType() ProofType {
	return ProofTypeCiphertextCiphertextEquality
}
func (d *CiphertextCiphertextEqualityProofData) ContextData() *CiphertextCiphertextEqualityProofContext {
	return &d.Context
}
func (*CiphertextCiphertextEqualityProofData) sealed() {}

// TransferPubkeys are the parties a transfer amount is encrypted to.
type TransferPubkeys struct {
	Source      ElGamalPubkey
	Destination ElGamalPubkey
	Auditor     ElGamalPubkey
}

// TransferProofContext carries the transfer amount split into low and high
// halves and the source's balance after the transfer.
type TransferProofContext struct {
	CiphertextLo        TransferAmountCiphertext
	CiphertextHi        TransferAmountCiphertext
	TransferPubkeys     TransferPubkeys
	NewSourceCiphertext ElGamalCiphertext
}

type TransferProof struct {
	NewSourceCommitment PedersenCommitment
	EqualityProof       CiphertextCommitmentEqualityProof
	ValidityProof       BatchedGroupedCiphertext2HandlesValidityProof
	RangeProof          RangeProofU128
}

type TransferData struct {
	Context TransferProofContext
	Proof   TransferProof
}

func (*TransferData) ProofType() ProofType { return ProofTypeTransfer }
func (d *TransferData) ContextData() *TransferProofContext { return &d.Context }
func (*TransferData) sealed() {}

// TransferWithFeePubkeys adds the authority that may withdraw withheld fees.
type TransferWithFeePubkeys struct {
	Source                    ElGamalPubkey
	Destination               ElGamalPubkey
	Auditor                   ElGamalPubkey
	WithdrawWithheldAuthority ElGamalPubkey
}

type TransferWithFeeProofContext struct {
	CiphertextLo        TransferAmountCiphertext
	CiphertextHi        TransferAmountCiphertext
	TransferPubkeys     TransferWithFeePubkeys
	NewSourceCiphertext ElGamalCiphertext
	FeeCiphertextLo     FeeEncryption
	FeeCiphertextHi     FeeEncryption
	FeeParameters       FeeParameters
}

type TransferWithFeeProof struct {
	NewSourceCommitment           PedersenCommitment
	ClaimedCommitment             PedersenCommitment
	EqualityProof                 CiphertextCommitmentEqualityProof
	CiphertextAmountValidityProof BatchedGroupedCiphertext2HandlesValidityProof
	FeeSigmaProof                 FeeSigmaProof
	FeeCiphertextValidityProof    BatchedGroupedCiphertext2HandlesValidityProof
	RangeProof                    RangeProofU256
}

type TransferWithFeeData struct {
	Context TransferWithFeeProofContext
	Proof   TransferWithFeeProof
}

func (*TransferWithFeeData) ProofType() ProofType { return ProofTypeTransferWithFee }
func (d *TransferWithFeeData) ContextData() *TransferWithFeeProofContext {
	return &d.Context
}
func (*TransferWithFeeData) sealed() {}

// PubkeyValidityProofContext states that the holder knows the secret key of
// Pubkey.
type PubkeyValidityProofContext struct {
	Pubkey ElGamalPubkey
}

type PubkeyValidityData struct {
	Context PubkeyValidityProofContext
	Proof   PubkeyValidityProof
}

func (*PubkeyValidityData) ProofType() ProofType { return ProofTypePubkeyValidity }
func (d *PubkeyValidityData) ContextData() *PubkeyValidityProofContext {
	return &d.Context
}
func (*PubkeyValidityData) sealed() {}
