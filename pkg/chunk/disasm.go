package chunk

import (
	"fmt"
	"io"
)

// Disassemble writes a readable listing of the whole chunk to w
func (c *Chunk) Disassemble(w io.Writer, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)

	for offset := 0; offset < len(c.code); {
		offset = c.DisassembleInstruction(w, offset)
	}
}

// DisassembleInstruction writes the listing line for one instruction and returns the next offset.
// Consecutive instructions from the same source line show "|" instead of the line number.
func (c *Chunk) DisassembleInstruction(w io.Writer, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.lines[offset] == c.lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.lines[offset])
	}

	ins := c.code[offset]
	switch ins.Op {
	case OpConstant:
		value := "<bad index>"
		if v, ok := c.Constant(ins.Operand); ok {
			value = "'" + v.String() + "'"
		}
		fmt.Fprintf(w, "%-16s %4d %s\n", ins.Op, ins.Operand, value)
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpNegate, OpReturn:
		fmt.Fprintf(w, "%s\n", ins.Op)
	default:
		fmt.Fprintf(w, "Unknown opcode %d\n", byte(ins.Op))
	}

	return offset + 1
}
