package vm

import (
	"errors"
	"fmt"
	"strings"

	"loxvm/pkg/chunk"
)

var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrConstantIndex  = errors.New("constant index out of range")
	ErrMissingReturn  = errors.New("reached end of chunk without return")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrNoChunk        = errors.New("no chunk to interpret")
)

// RuntimeError reports a fault that halted execution
type RuntimeError struct {
	Message string       // human readable description
	Line    int          // source line of the faulting instruction, 0 if unknown
	Offset  int          // instruction offset, -1 if no instruction was executing
	Op      chunk.OpCode // faulting opcode, meaningful when Offset >= 0
	Cause   error        // one of the sentinel errors above
}

func (e *RuntimeError) Error() string {
	locParts := []string{}
	if e.Line > 0 {
		locParts = append(locParts, fmt.Sprintf("[line %d]", e.Line))
	}
	if e.Offset >= 0 {
		locParts = append(locParts, fmt.Sprintf("in %s at %04d", e.Op, e.Offset))
	}

	if len(locParts) == 0 {
		return e.Message
	}

	return strings.Join(locParts, " ") + ": " + e.Message
}

// Unwrap exposes the sentinel cause
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// CompileError reports that source could not be turned into a chunk
type CompileError struct {
	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error: %v", e.Err)
}

// Unwrap exposes the compiler's error
func (e *CompileError) Unwrap() error {
	return e.Err
}
