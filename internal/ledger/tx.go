package ledger

import (
	"github.com/zarlcorp/zsol/internal/sol"
)

// SystemProgramID is the native program that owns plain transfers.
const SystemProgramID = sol.Address("11111111111111111111111111111111")

// directory program opcodes
const (
	opInitialize byte = iota
	opCreateCreator
	opCreateSupporter
	opAddMessage
)

// systemTransferIndex is the system program's transfer instruction index.
const systemTransferIndex uint32 = 2

// Instruction is one program invocation inside a transaction.
type Instruction struct {
	ProgramID sol.Address
	Accounts  []sol.Address
	Data      []byte
}

// Tx is an unsigned transaction: fee payer, recent blockhash, and the
// instruction list. Encode produces the byte message the wallet signs.
type Tx struct {
	FeePayer        sol.Address
	RecentBlockhash string
	Instructions    []Instruction
}

// Encode serializes the transaction message deterministically.
func (t Tx) Encode() []byte {
	var w writer
	w.str(string(t.FeePayer))
	w.str(t.RecentBlockhash)
	w.u32(uint32(len(t.Instructions)))
	for _, in := range t.Instructions {
		w.str(string(in.ProgramID))
		w.u32(uint32(len(in.Accounts)))
		for _, a := range in.Accounts {
			w.str(string(a))
		}
		w.bytes(in.Data)
	}
	return w.buf
}

// SignedTx pairs a transaction message with its signature.
type SignedTx struct {
	Message   []byte
	Signature []byte
	Signer    sol.Address
}

// Encode serializes the signed transaction for submission.
func (s SignedTx) Encode() []byte {
	var w writer
	w.bytes(s.Signature)
	w.str(string(s.Signer))
	w.bytes(s.Message)
	return w.buf
}

// initializeInstruction creates the one-time directory account setup.
func initializeInstruction(programID, account, payer sol.Address) Instruction {
	var w writer
	w.u8(opInitialize)
	return Instruction{
		ProgramID: programID,
		Accounts:  []sol.Address{account, payer, SystemProgramID},
		Data:      w.buf,
	}
}

// createCreatorInstruction registers a creator profile for caller.
func createCreatorInstruction(programID, account, caller sol.Address, username, name string) Instruction {
	var w writer
	w.u8(opCreateCreator)
	w.str(username)
	w.str(name)
	return Instruction{
		ProgramID: programID,
		Accounts:  []sol.Address{account, caller},
		Data:      w.buf,
	}
}

// createSupporterInstruction registers a supporter profile for caller.
func createSupporterInstruction(programID, account, caller sol.Address, name string) Instruction {
	var w writer
	w.u8(opCreateSupporter)
	w.str(name)
	return Instruction{
		ProgramID: programID,
		Accounts:  []sol.Address{account, caller},
		Data:      w.buf,
	}
}

// addMessageInstruction appends a payment message to the feed.
func addMessageInstruction(programID, account, caller, creator sol.Address, message string, amount sol.Lamports) Instruction {
	var w writer
	w.u8(opAddMessage)
	w.str(string(creator))
	w.str(message)
	w.u64(uint64(amount))
	return Instruction{
		ProgramID: programID,
		Accounts:  []sol.Address{account, caller, SystemProgramID},
		Data:      w.buf,
	}
}

// transferInstruction moves lamports between two accounts via the system
// program.
func transferInstruction(from, to sol.Address, amount sol.Lamports) Instruction {
	var w writer
	w.u32(systemTransferIndex)
	w.u64(uint64(amount))
	return Instruction{
		ProgramID: SystemProgramID,
		Accounts:  []sol.Address{from, to},
		Data:      w.buf,
	}
}
