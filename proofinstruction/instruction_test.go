package proofinstruction

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"zktoken/chain"
	"zktoken/proofdata"
)

func randomize(t *testing.T, b []byte) {
	t.Helper()
	_, err := rand.Read(b)
	require.NoError(t, err)
}

func testContextStateInfo() ContextStateInfo {
	var info ContextStateInfo
	info.ContextStateAccount[0] = 1
	info.ContextStateAuthority[0] = 2
	return info
}

func TestProgramID(t *testing.T) {
	require.Equal(t, "ZkTokenProof1111111111111111111111111111111", ProgramID.String())
}

func TestDiscriminantsAreStable(t *testing.T) {
	want := []ProofInstruction{
		CloseContextState,
		VerifyZeroBalance,
		VerifyWithdraw,
		VerifyCiphertextCiphertextEquality,
		VerifyTransfer,
		VerifyTransferWithFee,
		VerifyPubkeyValidity,
	}
	for i, p := range want {
		require.Equal(t, ProofInstruction(i), p)
		got, ok := InstructionType([]byte{byte(i)})
		require.True(t, ok)
		require.Equal(t, p, got)
	}
}

func TestVerifyInstructionSymmetry(t *testing.T) {
	info := testContextStateInfo()

	t.Run("ZeroBalance", func(t *testing.T) {
		var data proofdata.ZeroBalanceProofData
		randomize(t, data.Proof[:])
		randomize(t, data.Context.Pubkey[:])

		ix := NewVerifyZeroBalance(nil, &data)
		kind, ok := InstructionType(ix.Data)
		require.True(t, ok)
		require.Equal(t, VerifyZeroBalance, kind)
		decoded, ok := ProofData[proofdata.ZeroBalanceProofData](ix.Data)
		require.True(t, ok)
		require.Equal(t, data, *decoded)
	})

	t.Run("Withdraw", func(t *testing.T) {
		var data proofdata.WithdrawData
		randomize(t, data.Proof.RangeProof[:])
		randomize(t, data.Context.FinalCiphertext[:])

		ix := NewVerifyWithdraw(&info, &data)
		kind, ok := InstructionType(ix.Data)
		require.True(t, ok)
		require.Equal(t, VerifyWithdraw, kind)
		decoded, ok := ProofData[proofdata.WithdrawData](ix.Data)
		require.True(t, ok)
		require.Equal(t, data, *decoded)
	})

	t.Run("CiphertextCiphertextEquality", func(t *testing.T) {
		var data proofdata.CiphertextCiphertextEqualityProofData
		randomize(t, data.Proof[:])
		randomize(t, data.Context.DestinationCiphertext[:])

		ix := NewVerifyCiphertextCiphertextEquality(nil, &data)
		kind, ok := InstructionType(ix.Data)
		require.True(t, ok)
		require.Equal(t, VerifyCiphertextCiphertextEquality, kind)
		decoded, ok := ProofData[proofdata.CiphertextCiphertextEqualityProofData](ix.Data)
		require.True(t, ok)
		require.Equal(t, data, *decoded)
	})

	t.Run("Transfer", func(t *testing.T) {
		var data proofdata.TransferData
		randomize(t, data.Proof.RangeProof[:])
		randomize(t, data.Context.TransferPubkeys.Auditor[:])

		ix := NewVerifyTransfer(&info, &data)
		kind, ok := InstructionType(ix.Data)
		require.True(t, ok)
		require.Equal(t, VerifyTransfer, kind)
		decoded, ok := ProofData[proofdata.TransferData](ix.Data)
		require.True(t, ok)
		require.Equal(t, data, *decoded)
	})

	t.Run("TransferWithFee", func(t *testing.T) {
		var data proofdata.TransferWithFeeData
		randomize(t, data.Proof.FeeSigmaProof[:])
		data.Context.FeeParameters.MaximumFee = proofdata.NewPodU64(5000)

		ix := NewVerifyTransferWithFee(nil, &data)
		kind, ok := InstructionType(ix.Data)
		require.True(t, ok)
		require.Equal(t, VerifyTransferWithFee, kind)
		decoded, ok := ProofData[proofdata.TransferWithFeeData](ix.Data)
		require.True(t, ok)
		require.Equal(t, data, *decoded)
		require.Equal(t, uint64(5000), decoded.ContextData().FeeParameters.MaximumFee.Uint64())
	})

	t.Run("PubkeyValidity", func(t *testing.T) {
		var data proofdata.PubkeyValidityData
		randomize(t, data.Proof[:])
		randomize(t, data.Context.Pubkey[:])

		ix := NewVerifyPubkeyValidity(&info, &data)
		kind, ok := InstructionType(ix.Data)
		require.True(t, ok)
		require.Equal(t, VerifyPubkeyValidity, kind)
		decoded, ok := ProofData[proofdata.PubkeyValidityData](ix.Data)
		require.True(t, ok)
		require.Equal(t, data, *decoded)
	})
}

func TestEncodeVerifyProofLayout(t *testing.T) {
	var data proofdata.PubkeyValidityData
	randomize(t, data.Proof[:])

	ix := EncodeVerifyProof(nil, &data)
	require.Equal(t, ProgramID, ix.ProgramID)
	require.Empty(t, ix.Accounts)
	require.Len(t, ix.Data, 1+96)
	require.Equal(t, byte(VerifyPubkeyValidity), ix.Data[0])
	require.Equal(t, proofdata.Encode(&data), ix.Data[1:])

	// The typed builder and the generic entry point agree.
	require.Equal(t, ix, NewVerifyPubkeyValidity(nil, &data))
}

func TestEncodeVerifyProofWithContextState(t *testing.T) {
	info := testContextStateInfo()
	var data proofdata.ZeroBalanceProofData

	ix := EncodeVerifyProof(&info, &data)
	require.Equal(t, []chain.AccountMeta{
		{Pubkey: info.ContextStateAccount, IsSigner: false, IsWritable: true},
		{Pubkey: info.ContextStateAuthority, IsSigner: false, IsWritable: false},
	}, ix.Accounts)
}

func TestEncodeVerifyProofNilRecord(t *testing.T) {
	info := testContextStateInfo()

	require.PanicsWithValue(t, "proofinstruction: nil ZeroBalance record", func() {
		NewVerifyZeroBalance(nil, nil)
	})
	require.PanicsWithValue(t, "proofinstruction: nil TransferWithFee record", func() {
		NewVerifyTransferWithFee(&info, nil)
	})
	require.PanicsWithValue(t, "proofinstruction: nil proof record", func() {
		EncodeVerifyProof(&info, nil)
	})
}

func TestNewCloseContextState(t *testing.T) {
	info := testContextStateInfo()
	var destination chain.Pubkey
	destination[0] = 3

	ix := NewCloseContextState(info, destination)
	require.Equal(t, ProgramID, ix.ProgramID)
	require.Equal(t, []byte{0}, ix.Data)
	require.Equal(t, []chain.AccountMeta{
		{Pubkey: info.ContextStateAccount, IsSigner: false, IsWritable: true},
		{Pubkey: destination, IsSigner: false, IsWritable: true},
		{Pubkey: info.ContextStateAuthority, IsSigner: true, IsWritable: false},
	}, ix.Accounts)

	kind, ok := InstructionType(ix.Data)
	require.True(t, ok)
	require.Equal(t, CloseContextState, kind)
	require.Equal(t, proofdata.ProofTypeUninitialized, kind.ProofType())

	// Close carries no record of any type.
	_, ok = ProofData[proofdata.PubkeyValidityData](ix.Data)
	require.False(t, ok)
}

func TestProofDataRejectsOtherTypes(t *testing.T) {
	var data proofdata.WithdrawData
	randomize(t, data.Proof.EqualityProof[:])
	ix := NewVerifyWithdraw(nil, &data)

	_, ok := ProofData[proofdata.ZeroBalanceProofData](ix.Data)
	require.False(t, ok)
	_, ok = ProofData[proofdata.TransferData](ix.Data)
	require.False(t, ok)
	_, ok = ProofData[proofdata.TransferWithFeeData](ix.Data)
	require.False(t, ok)
	_, ok = ProofData[proofdata.PubkeyValidityData](ix.Data)
	require.False(t, ok)
	_, ok = ProofData[proofdata.CiphertextCiphertextEqualityProofData](ix.Data)
	require.False(t, ok)

	// Truncated and extended payloads are rejected too.
	_, ok = ProofData[proofdata.WithdrawData](ix.Data[:len(ix.Data)-1])
	require.False(t, ok)
	_, ok = ProofData[proofdata.WithdrawData](append(ix.Data, 0))
	require.False(t, ok)
}

func TestInstructionTypeRejectsUnknown(t *testing.T) {
	_, ok := InstructionType(nil)
	require.False(t, ok)
	_, ok = InstructionType([]byte{})
	require.False(t, ok)
	for _, b := range []byte{7, 8, 0x80, 0xff} {
		_, ok := InstructionType([]byte{b, 1, 2, 3})
		require.False(t, ok, "discriminant %d", b)
	}

	_, ok = ProofData[proofdata.PubkeyValidityData](nil)
	require.False(t, ok)
}

func TestProofInstructionNames(t *testing.T) {
	require.Equal(t, "VerifyTransferWithFee", VerifyTransferWithFee.String())
	require.Equal(t, "ProofInstruction(9)", ProofInstruction(9).String())

	for kind, ix := range verifyInstructions {
		require.Equal(t, kind, ix.ProofType())
	}
	require.Len(t, verifyInstructions, 6)
}
