// message.go - Legacy message compilation and wire serialization.
//
// A Message is what signers actually sign. Compiling a list of instructions
// deduplicates their accounts, orders them by access class and replaces every
// account reference with an index into the key table. The serialized form is:
//
//	header (3 bytes) | short-vec keys | recent blockhash (32) | short-vec instructions
//
// where every compiled instruction is
//
//	program id index (1) | short-vec account indexes | short-vec data
//
// Other wallet implementations sign exactly these bytes, so any deviation here
// changes every key derived from a signature over a message.

package chain

import (
	"bytes"
	"fmt"
	"sort"
)

// HashSize is the byte length of a recent blockhash.
const HashSize = 32

// Hash is a ledger block hash.
type Hash [HashSize]byte

// MessageHeader counts the signed and read-only accounts at the front and
// back of the key table.
type MessageHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

// CompiledInstruction is an Instruction whose accounts were resolved to
// indexes into Message.AccountKeys.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	Accounts       []uint8
	Data           []byte
}

// Message is a compiled, signable list of instructions.
type Message struct {
	Header          MessageHeader
	AccountKeys     []Pubkey
	RecentBlockhash Hash
	Instructions    []CompiledInstruction
}

type keyMeta struct {
	isSigner   bool
	isWritable bool
}

// NewMessage compiles instructions with an optional fee payer and a zero
// recent blockhash. The payer, when present, is always the first key and is
// a writable signer.
//
// NewMessage panics if the instructions reference more than 256 distinct
// accounts, which cannot be expressed with one-byte indexes.
func NewMessage(instructions []Instruction, payer *Pubkey) Message {
	metas := make(map[Pubkey]*keyMeta)
	touch := func(pk Pubkey) *keyMeta {
		m, ok := metas[pk]
		if !ok {
			m = &keyMeta{}
			metas[pk] = m
		}
		return m
	}

	if payer != nil {
		m := touch(*payer)
		m.isSigner = true
		m.isWritable = true
	}
	for _, ix := range instructions {
		touch(ix.ProgramID)
		for _, acc := range ix.Accounts {
			m := touch(acc.Pubkey)
			m.isSigner = m.isSigner || acc.IsSigner
			m.isWritable = m.isWritable || acc.IsWritable
		}
	}

	// Keys other than the payer are ordered by their bytes within each
	// access class.
	others := make([]Pubkey, 0, len(metas))
	for pk := range metas {
		if payer != nil && pk == *payer {
			continue
		}
		others = append(others, pk)
	}
	sort.Slice(others, func(i, j int) bool {
		return bytes.Compare(others[i][:], others[j][:]) < 0
	})

	classify := func(signer, writable bool) []Pubkey {
		var out []Pubkey
		for _, pk := range others {
			m := metas[pk]
			if m.isSigner == signer && m.isWritable == writable {
				out = append(out, pk)
			}
		}
		return out
	}

	var writableSigners []Pubkey
	if payer != nil {
		writableSigners = append(writableSigners, *payer)
	}
	writableSigners = append(writableSigners, classify(true, true)...)
	readonlySigners := classify(true, false)
	writableNonSigners := classify(false, true)
	readonlyNonSigners := classify(false, false)

	keys := make([]Pubkey, 0, len(metas))
	keys = append(keys, writableSigners...)
	keys = append(keys, readonlySigners...)
	keys = append(keys, writableNonSigners...)
	keys = append(keys, readonlyNonSigners...)
	if len(keys) > 256 {
		panic(fmt.Sprintf("chain: message references %d accounts, at most 256 are addressable", len(keys)))
	}

	index := make(map[Pubkey]uint8, len(keys))
	for i, pk := range keys {
		index[pk] = uint8(i)
	}

	compiled := make([]CompiledInstruction, 0, len(instructions))
	for _, ix := range instructions {
		accounts := make([]uint8, len(ix.Accounts))
		for i, acc := range ix.Accounts {
			accounts[i] = index[acc.Pubkey]
		}
		compiled = append(compiled, CompiledInstruction{
			ProgramIDIndex: index[ix.ProgramID],
			Accounts:       accounts,
			Data:           ix.Data,
		})
	}

	return Message{
		Header: MessageHeader{
			NumRequiredSignatures:       uint8(len(writableSigners) + len(readonlySigners)),
			NumReadonlySignedAccounts:   uint8(len(readonlySigners)),
			NumReadonlyUnsignedAccounts: uint8(len(readonlyNonSigners)),
		},
		AccountKeys:  keys,
		Instructions: compiled,
	}
}

// Serialize returns the wire form of the message.
func (m Message) Serialize() []byte {
	buf := make([]byte, 0, 3+3+len(m.AccountKeys)*PubkeySize+HashSize+64)
	buf = append(buf,
		m.Header.NumRequiredSignatures,
		m.Header.NumReadonlySignedAccounts,
		m.Header.NumReadonlyUnsignedAccounts,
	)
	buf = AppendShortVecLen(buf, len(m.AccountKeys))
	for _, pk := range m.AccountKeys {
		buf = append(buf, pk[:]...)
	}
	buf = append(buf, m.RecentBlockhash[:]...)
	buf = AppendShortVecLen(buf, len(m.Instructions))
	for _, ix := range m.Instructions {
		buf = append(buf, ix.ProgramIDIndex)
		buf = AppendShortVecLen(buf, len(ix.Accounts))
		buf = append(buf, ix.Accounts...)
		buf = AppendShortVecLen(buf, len(ix.Data))
		buf = append(buf, ix.Data...)
	}
	return buf
}
