package chunk

import "fmt"

type OpCode byte

// Instruction set
const (
	OpConstant OpCode = iota // push constants[operand]
	OpAdd                    // a + b
	OpSubtract               // a - b
	OpMultiply               // a * b
	OpDivide                 // a / b
	OpNegate                 // -a
	OpReturn                 // pop and halt
)

var opNames = map[OpCode]string{
	OpConstant: "OP_CONSTANT",
	OpAdd:      "OP_ADD",
	OpSubtract: "OP_SUBTRACT",
	OpMultiply: "OP_MULTIPLY",
	OpDivide:   "OP_DIVIDE",
	OpNegate:   "OP_NEGATE",
	OpReturn:   "OP_RETURN",
}

// Instruction is one decoded operation. Operand is only meaningful for OpConstant.
type Instruction struct {
	Op      OpCode
	Operand int
}

// Constant builds an OpConstant instruction referring to the given pool index
func Constant(index int) Instruction {
	return Instruction{Op: OpConstant, Operand: index}
}

// Simple builds an instruction that carries no operand
func Simple(op OpCode) Instruction {
	return Instruction{Op: op}
}

// String returns the disassembly mnemonic of the opcode
func (op OpCode) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}

	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// String returns a string representation of the instruction
func (i Instruction) String() string {
	if i.Op == OpConstant {
		return fmt.Sprintf("(%s, %d)", i.Op, i.Operand)
	}

	return fmt.Sprintf("(%s)", i.Op)
}
