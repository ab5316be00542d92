package proofdata

import (
	"crypto/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, r Record) {
	t.Helper()
	buf := make([]byte, Size(r))
	_, err := rand.Read(buf)
	require.NoError(t, err)
	switch v := r.(type) {
	case *ZeroBalanceProofData:
		decoded, ok := Decode[ZeroBalanceProofData](buf)
		require.True(t, ok)
		*v = *decoded
	case *WithdrawData:
		decoded, ok := Decode[WithdrawData](buf)
		require.True(t, ok)
		*v = *decoded
	case *CiphertextCiphertextEqualityProofData:
		decoded, ok := Decode[CiphertextCiphertextEqualityProofData](buf)
		require.True(t, ok)
		*v = *decoded
	case *TransferData:
		decoded, ok := Decode[TransferData](buf)
		require.True(t, ok)
		*v = *decoded
	case *TransferWithFeeData:
		decoded, ok := Decode[TransferWithFeeData](buf)
		require.True(t, ok)
		*v = *decoded
	case *PubkeyValidityData:
		decoded, ok := Decode[PubkeyValidityData](buf)
		require.True(t, ok)
		*v = *decoded
	default:
		t.Fatalf("unknown record %T", r)
	}
}

func TestRecordSizes(t *testing.T) {
	tests := []struct {
		record  Record
		size    int
		memSize uintptr
		kind    ProofType
	}{
		{&ZeroBalanceProofData{}, 192, unsafe.Sizeof(ZeroBalanceProofData{}), ProofTypeZeroBalance},
		{&WithdrawData{}, 992, unsafe.Sizeof(WithdrawData{}), ProofTypeWithdraw},
		{&CiphertextCiphertextEqualityProofData{}, 416, unsafe.Sizeof(CiphertextCiphertextEqualityProofData{}), ProofTypeCiphertextCiphertextEquality},
		{&TransferData{}, 1536, unsafe.Sizeof(TransferData{}), ProofTypeTransfer},
		{&TransferWithFeeData{}, 2282, unsafe.Sizeof(TransferWithFeeData{}), ProofTypeTransferWithFee},
		{&PubkeyValidityData{}, 96, unsafe.Sizeof(PubkeyValidityData{}), ProofTypePubkeyValidity},
	}

	seen := make(map[int]ProofType)
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			require.Equal(t, tt.kind, tt.record.ProofType())
			require.Equal(t, tt.size, Size(tt.record))
			// No padding: the in-memory layout is the wire layout.
			require.Equal(t, uintptr(tt.size), tt.memSize)
			require.Len(t, Encode(tt.record), tt.size)
		})
		other, dup := seen[tt.size]
		require.False(t, dup, "%s and %s share a size", tt.kind, other)
		seen[tt.size] = tt.kind
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var data TransferWithFeeData
	fill(t, &data)
	data.Context.FeeParameters = FeeParameters{
		FeeRateBasisPoints: NewPodU16(250),
		MaximumFee:         NewPodU64(1_000_000),
	}

	raw := Encode(&data)
	decoded, ok := Decode[TransferWithFeeData](raw)
	require.True(t, ok)
	require.Equal(t, data, *decoded)
	require.Equal(t, uint16(250), decoded.ContextData().FeeParameters.FeeRateBasisPoints.Uint16())
	require.Equal(t, uint64(1_000_000), decoded.ContextData().FeeParameters.MaximumFee.Uint64())
}

func TestEncodeLayout(t *testing.T) {
	var data PubkeyValidityData
	for i := range data.Context.Pubkey {
		data.Context.Pubkey[i] = 0xAA
	}
	for i := range data.Proof {
		data.Proof[i] = byte(i)
	}

	raw := Encode(&data)
	require.Len(t, raw, 96)
	require.Equal(t, data.Context.Pubkey[:], raw[:32])
	require.Equal(t, data.Proof[:], raw[32:])

	prefix := []byte{9}
	out := AppendEncode(prefix, &data)
	require.Equal(t, byte(9), out[0])
	require.Equal(t, raw, out[1:])
}

func TestDecodeRejectsWrongSize(t *testing.T) {
	var data ZeroBalanceProofData
	fill(t, &data)
	raw := Encode(&data)

	_, ok := Decode[ZeroBalanceProofData](raw[:len(raw)-1])
	require.False(t, ok)
	_, ok = Decode[ZeroBalanceProofData](append(raw, 0))
	require.False(t, ok)
	_, ok = Decode[ZeroBalanceProofData](nil)
	require.False(t, ok)

	// A record of one kind never decodes as another.
	_, ok = Decode[WithdrawData](raw)
	require.False(t, ok)
	_, ok = Decode[PubkeyValidityData](raw)
	require.False(t, ok)
}

func TestContextData(t *testing.T) {
	var data ZeroBalanceProofData
	fill(t, &data)

	ctx := data.ContextData()
	require.Same(t, &data.Context, ctx)

	var commitment PedersenCommitment
	var handle DecryptHandle
	copy(commitment[:], data.Context.Ciphertext[:32])
	copy(handle[:], data.Context.Ciphertext[32:])
	require.Equal(t, commitment, ctx.Ciphertext.Commitment())
	require.Equal(t, handle, ctx.Ciphertext.Handle())
	require.Equal(t, ctx.Ciphertext, NewElGamalCiphertext(commitment, handle))
}

func TestProofTypeString(t *testing.T) {
	require.Equal(t, "TransferWithFee", ProofTypeTransferWithFee.String())
	require.Equal(t, "ProofType(42)", ProofType(42).String())
}
