package vm

import (
	"fmt"
	"io"

	"loxvm/pkg/chunk"

	"github.com/charmbracelet/log"
)

const DefaultStackSize = 256

// VM executes one chunk at a time on a fixed-capacity operand stack
type VM struct {
	chunk *chunk.Chunk // chunk being executed, released once the VM halts
	ip    int          // index of the next instruction in chunk
	stack *Stack       // operand stack

	state     State       // lifecycle state
	result    chunk.Value // value popped by the last OP_RETURN
	hasResult bool        // whether result holds a returned value

	stackSize int       // operand stack capacity
	trace     io.Writer // execution trace output, nil disables tracing
}

// CompileFunc turns source text into a chunk.
// A nil chunk with a nil error means the source produced no code.
type CompileFunc func(source string) (*chunk.Chunk, error)

type Option func(*VM)

// WithStackSize sets the operand stack capacity
func WithStackSize(n int) Option {
	return func(vm *VM) {
		if n > 0 {
			vm.stackSize = n
		}
	}
}

// WithTrace writes the stack and each instruction to w before it executes
func WithTrace(w io.Writer) Option {
	return func(vm *VM) { vm.trace = w }
}

// New creates a new VM instance
func New(opts ...Option) *VM {
	vm := &VM{
		stackSize: DefaultStackSize,
		state:     StateIdle,
	}

	for _, o := range opts {
		o(vm)
	}

	vm.stack = NewStack(vm.stackSize)
	return vm
}

// Interpret runs c to completion and returns the value of its OP_RETURN.
// Every call starts from a fresh stack and instruction pointer.
func (vm *VM) Interpret(c *chunk.Chunk) (chunk.Value, error) {
	vm.Load(c)
	if c == nil {
		return 0, vm.fail(-1, ErrNoChunk, ErrNoChunk.Error())
	}

	if err := vm.Run(); err != nil {
		return 0, err
	}

	return vm.result, nil
}

// InterpretSource compiles source with compile and runs the resulting chunk
func (vm *VM) InterpretSource(source string, compile CompileFunc) (chunk.Value, error) {
	vm.Load(nil)

	c, err := compile(source)
	if err != nil {
		vm.state = StateHaltedCompileError
		log.Debug("Compilation failed", "error", err)
		return 0, &CompileError{Err: err}
	}

	if c == nil {
		vm.state = StateHaltedOK
		return 0, nil
	}

	return vm.Interpret(c)
}

// Load adopts c as the current program and resets all execution state
func (vm *VM) Load(c *chunk.Chunk) {
	vm.chunk = c
	vm.ip = 0
	vm.stack.Reset()
	vm.result = 0
	vm.hasResult = false
	vm.state = StateIdle

	if c != nil {
		vm.state = StateRunning
	}
}

// Run executes until halt or error
func (vm *VM) Run() error {
	for {
		halted, err := vm.Step()
		if err != nil {
			return err
		}

		if halted {
			return nil
		}
	}
}

// Step executes a single instruction, returning (halted, error)
func (vm *VM) Step() (bool, error) {
	if vm.state != StateRunning {
		return true, nil
	}

	if vm.ip >= vm.chunk.Len() {
		return true, vm.fail(-1, ErrMissingReturn, ErrMissingReturn.Error())
	}

	offset := vm.ip
	in := vm.chunk.At(offset)
	if vm.trace != nil {
		vm.traceInstruction(offset)
	}
	vm.ip++

	switch in.Op {
	case chunk.OpConstant:
		v, ok := vm.chunk.Constant(in.Operand)
		if !ok {
			msg := fmt.Sprintf("constant index %d out of range (pool size %d)", in.Operand, vm.chunk.ConstantCount())
			return true, vm.fail(offset, ErrConstantIndex, msg)
		}
		if err := vm.stack.Push(v); err != nil {
			return true, vm.fail(offset, err, err.Error())
		}

	case chunk.OpAdd, chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide:
		// the most recently pushed value is the right-hand operand
		b, err := vm.stack.Pop()
		if err != nil {
			return true, vm.fail(offset, err, err.Error())
		}
		a, err := vm.stack.Pop()
		if err != nil {
			return true, vm.fail(offset, err, err.Error())
		}
		if err := vm.stack.Push(binaryOp(in.Op, a, b)); err != nil {
			return true, vm.fail(offset, err, err.Error())
		}

	case chunk.OpNegate:
		v, err := vm.stack.Pop()
		if err != nil {
			return true, vm.fail(offset, err, err.Error())
		}
		if err := vm.stack.Push(-v); err != nil {
			return true, vm.fail(offset, err, err.Error())
		}

	case chunk.OpReturn:
		v, err := vm.stack.Pop()
		if err != nil {
			return true, vm.fail(offset, err, err.Error())
		}
		vm.result = v
		vm.hasResult = true
		vm.halt(StateHaltedOK)
		return true, nil

	default:
		msg := fmt.Sprintf("unknown opcode %d", byte(in.Op))
		return true, vm.fail(offset, ErrUnknownOpcode, msg)
	}

	return false, nil
}

// State returns the lifecycle state of the VM
func (vm *VM) State() State {
	return vm.state
}

// Result returns the value of the last OP_RETURN, if the last run produced one
func (vm *VM) Result() (chunk.Value, bool) {
	return vm.result, vm.hasResult
}

// StackSize returns the number of values currently on the operand stack
func (vm *VM) StackSize() int {
	return vm.stack.Size()
}

// halt moves the VM to a terminal state and releases the chunk
func (vm *VM) halt(state State) {
	vm.state = state
	vm.chunk = nil
}

// fail halts with a runtime error located at offset (-1 when no instruction was executing)
func (vm *VM) fail(offset int, cause error, msg string) *RuntimeError {
	err := &RuntimeError{
		Message: msg,
		Offset:  offset,
		Cause:   cause,
	}

	if vm.chunk != nil {
		switch {
		case offset >= 0:
			err.Line = vm.chunk.Line(offset)
			err.Op = vm.chunk.At(offset).Op
		case vm.chunk.Len() > 0:
			err.Line = vm.chunk.Line(vm.chunk.Len() - 1)
		}
	}

	log.Debug("Runtime error", "error", err, "stack", vm.stack.Size())
	vm.halt(StateHaltedRuntimeError)
	return err
}

func (vm *VM) traceInstruction(offset int) {
	fmt.Fprint(vm.trace, "          ")
	for _, v := range vm.stack.Values() {
		fmt.Fprintf(vm.trace, "[ %s ]", v)
	}
	fmt.Fprintln(vm.trace)
	vm.chunk.DisassembleInstruction(vm.trace, offset)
}

// binaryOp applies an arithmetic opcode with IEEE 754 float32 semantics
func binaryOp(op chunk.OpCode, a, b chunk.Value) chunk.Value {
	switch op {
	case chunk.OpAdd:
		return a + b
	case chunk.OpSubtract:
		return a - b
	case chunk.OpMultiply:
		return a * b
	default:
		return a / b
	}
}
