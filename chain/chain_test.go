package chain

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPubkeyBase58RoundTrip(t *testing.T) {
	kp, err := NewKeypair()
	require.NoError(t, err)
	pk, err := kp.Pubkey()
	require.NoError(t, err)

	parsed, err := PubkeyFromBase58(pk.String())
	require.NoError(t, err)
	require.Equal(t, pk, parsed)

	_, err = PubkeyFromBase58("0OIl")
	require.Error(t, err, "base58 alphabet excludes 0, O, I and l")

	_, err = PubkeyFromBase58("11111111")
	require.Error(t, err, "short address must be rejected")

	require.Equal(t, "11111111111111111111111111111111", Pubkey{}.String())
	require.True(t, Pubkey{}.IsZero())
}

func TestShortVecLen(t *testing.T) {
	tests := []struct {
		n    int
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{0x7f, []byte{0x7f}},
		{0x80, []byte{0x80, 0x01}},
		{0xff, []byte{0xff, 0x01}},
		{0x100, []byte{0x80, 0x02}},
		{0x3fff, []byte{0xff, 0x7f}},
		{0x4000, []byte{0x80, 0x80, 0x01}},
		{0xffff, []byte{0xff, 0xff, 0x03}},
	}
	for _, tt := range tests {
		got := AppendShortVecLen(nil, tt.n)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("AppendShortVecLen(%d) = %x, want %x", tt.n, got, tt.want)
		}
		n, size, err := DecodeShortVecLen(got)
		if err != nil {
			t.Fatalf("DecodeShortVecLen(%x): %v", got, err)
		}
		if n != tt.n || size != len(tt.want) {
			t.Errorf("DecodeShortVecLen(%x) = (%d, %d), want (%d, %d)", got, n, size, tt.n, len(tt.want))
		}
	}

	for _, bad := range [][]byte{
		{},
		{0x80},
		{0x80, 0x00},
		{0xff, 0xff, 0x04},
		{0x80, 0x80, 0x80, 0x01},
	} {
		if _, _, err := DecodeShortVecLen(bad); err == nil {
			t.Errorf("DecodeShortVecLen(%x) succeeded, want error", bad)
		}
	}
}

func TestMessageSerializeSingleInstruction(t *testing.T) {
	var payer, program Pubkey
	payer[0] = 1
	program[0] = 2

	ix := Instruction{ProgramID: program, Data: []byte("AeKey")}
	msg := NewMessage([]Instruction{ix}, &payer)

	require.Equal(t, MessageHeader{1, 0, 1}, msg.Header)
	require.Equal(t, []Pubkey{payer, program}, msg.AccountKeys)

	var want []byte
	want = append(want, 1, 0, 1)
	want = append(want, 2)
	want = append(want, payer[:]...)
	want = append(want, program[:]...)
	want = append(want, make([]byte, HashSize)...)
	want = append(want, 1) // one instruction
	want = append(want, 1) // program id index
	want = append(want, 0) // no accounts
	want = append(want, 5) // data length
	want = append(want, "AeKey"...)
	require.Equal(t, want, msg.Serialize())
}

func TestMessagePayerIsProgram(t *testing.T) {
	var payer Pubkey
	payer[31] = 9

	msg := NewMessage([]Instruction{{ProgramID: payer, Data: []byte{7}}}, &payer)
	require.Equal(t, MessageHeader{1, 0, 0}, msg.Header)
	require.Equal(t, []Pubkey{payer}, msg.AccountKeys)
	require.Equal(t, uint8(0), msg.Instructions[0].ProgramIDIndex)
}

func TestMessageAccountOrdering(t *testing.T) {
	key := func(b byte) Pubkey {
		var pk Pubkey
		pk[0] = b
		return pk
	}
	payer := key(0x50)
	program := key(0x10)

	ix := Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			NewReadonlyAccountMeta(key(0x40), false),
			NewAccountMeta(key(0x30), false),
			NewReadonlyAccountMeta(key(0x20), true),
			NewAccountMeta(key(0x60), true),
			NewAccountMeta(key(0x05), false),
			// Repeated key: flags are merged.
			NewReadonlyAccountMeta(key(0x30), true),
		},
	}
	msg := NewMessage([]Instruction{ix}, &payer)

	require.Equal(t, []Pubkey{
		payer,     // payer first
		key(0x30), // writable signers
		key(0x60),
		key(0x20), // readonly signers
		key(0x05), // writable non-signers
		program,   // readonly non-signers, sorted
		key(0x40),
	}, msg.AccountKeys)
	require.Equal(t, MessageHeader{
		NumRequiredSignatures:       4,
		NumReadonlySignedAccounts:   1,
		NumReadonlyUnsignedAccounts: 2,
	}, msg.Header)
	require.Equal(t, uint8(5), msg.Instructions[0].ProgramIDIndex)
	require.Equal(t, []uint8{6, 1, 3, 2, 4, 1}, msg.Instructions[0].Accounts)
}

func TestKeypairDeterministicSignatures(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, KeypairSeedSize)
	a, err := KeypairFromSeed(seed)
	require.NoError(t, err)
	b, err := KeypairFromSeed(seed)
	require.NoError(t, err)

	pkA, _ := a.Pubkey()
	pkB, _ := b.Pubkey()
	require.Equal(t, pkA, pkB)

	msg := []byte("confidential balance")
	sigA, err := a.SignMessage(msg)
	require.NoError(t, err)
	sigB, err := b.SignMessage(msg)
	require.NoError(t, err)
	require.Equal(t, sigA, sigB)
	require.NotEqual(t, Signature{}, sigA)

	require.True(t, Verify(pkA, msg, sigA))
	require.False(t, Verify(pkA, []byte("another message"), sigA))

	_, err = KeypairFromSeed(seed[:31])
	require.Error(t, err)
}

// RFC 8032 section 7.1, test 1: wallets expand the same seed into the same
// address and signatures.
func TestKeypairMatchesEd25519TestVector(t *testing.T) {
	seed, _ := hex.DecodeString("9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60")
	wantPubkey, _ := hex.DecodeString("d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a")
	wantSig, _ := hex.DecodeString("e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b")

	kp, err := KeypairFromSeed(seed)
	require.NoError(t, err)
	pubkey, err := kp.Pubkey()
	require.NoError(t, err)
	require.Equal(t, wantPubkey, pubkey[:])

	sig, err := kp.SignMessage(nil)
	require.NoError(t, err)
	require.Equal(t, wantSig, sig[:])
	require.True(t, Verify(pubkey, nil, sig))

	kp.Zeroize()
	require.Equal(t, make([]byte, 64), []byte(kp.priv))
}

func TestNullSignerReturnsDefaultSignature(t *testing.T) {
	var pk Pubkey
	pk[3] = 3
	s := NewNullSigner(pk)

	got, err := s.Pubkey()
	require.NoError(t, err)
	require.Equal(t, pk, got)

	sig, err := s.SignMessage([]byte("anything"))
	require.NoError(t, err)
	require.Equal(t, Signature{}, sig)
}
