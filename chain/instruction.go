// instruction.go - Program instructions and the account references they carry.

package chain

// AccountMeta references an account used by an instruction, together with
// the access the instruction needs.
type AccountMeta struct {
	Pubkey     Pubkey
	IsSigner   bool
	IsWritable bool
}

// NewAccountMeta returns a writable account reference.
func NewAccountMeta(pubkey Pubkey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: isSigner, IsWritable: true}
}

// NewReadonlyAccountMeta returns a read-only account reference.
func NewReadonlyAccountMeta(pubkey Pubkey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: isSigner, IsWritable: false}
}

// Instruction is a single program invocation: the target program, the
// ordered accounts it touches and an opaque data payload.
type Instruction struct {
	ProgramID Pubkey
	Accounts  []AccountMeta
	Data      []byte
}
