package vm_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"loxvm/pkg/chunk"
	"loxvm/pkg/vm"
)

func buildChunk(constants []chunk.Value, ops ...chunk.Instruction) *chunk.Chunk {
	c := chunk.New()
	for _, v := range constants {
		c.AddConstant(v)
	}
	for _, op := range ops {
		c.Write(op, 1)
	}
	return c
}

func TestInterpretArithmetic(t *testing.T) {
	c := chunk.New()
	c.WriteConstant(1.2, 123)
	c.WriteConstant(3.4, 123)
	c.Write(chunk.Simple(chunk.OpAdd), 123)
	c.WriteConstant(5.6, 123)
	c.Write(chunk.Simple(chunk.OpDivide), 123)
	c.Write(chunk.Simple(chunk.OpNegate), 123)
	c.Write(chunk.Simple(chunk.OpReturn), 123)

	machine := vm.New()
	got, err := machine.Interpret(c)
	if err != nil {
		t.Fatalf("interpret error: %v", err)
	}

	a, b, d := chunk.Value(1.2), chunk.Value(3.4), chunk.Value(5.6)
	want := -((a + b) / d)
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if math.Abs(float64(got)+0.8214) > 1e-3 {
		t.Errorf("expected about -0.8214, got %s", got)
	}
	if machine.State() != vm.StateHaltedOK {
		t.Errorf("expected state %s, got %s", vm.StateHaltedOK, machine.State())
	}
	if v, ok := machine.Result(); !ok || v != got {
		t.Errorf("expected result %s, got %s (%v)", got, v, ok)
	}
	if vm.ResultOf(err) != vm.InterpretOK {
		t.Errorf("expected %s, got %s", vm.InterpretOK, vm.ResultOf(err))
	}
}

func TestBinaryOperandOrder(t *testing.T) {
	tests := []struct {
		op       chunk.OpCode
		expected chunk.Value
	}{
		{chunk.OpAdd, 10},
		{chunk.OpSubtract, 6},
		{chunk.OpMultiply, 16},
		{chunk.OpDivide, 4},
	}

	for _, test := range tests {
		c := buildChunk([]chunk.Value{8, 2},
			chunk.Constant(0), chunk.Constant(1), chunk.Simple(test.op), chunk.Simple(chunk.OpReturn))

		got, err := vm.New().Interpret(c)
		if err != nil {
			t.Fatalf("%s: interpret error: %v", test.op, err)
		}
		if got != test.expected {
			t.Errorf("%s: expected %s, got %s", test.op, test.expected, got)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	tests := []struct {
		a     chunk.Value
		check func(float64) bool
	}{
		{1, func(f float64) bool { return math.IsInf(f, 1) }},
		{-1, func(f float64) bool { return math.IsInf(f, -1) }},
		{0, math.IsNaN},
	}

	for _, test := range tests {
		c := buildChunk([]chunk.Value{test.a, 0},
			chunk.Constant(0), chunk.Constant(1), chunk.Simple(chunk.OpDivide), chunk.Simple(chunk.OpReturn))

		got, err := vm.New().Interpret(c)
		if err != nil {
			t.Fatalf("%s / 0: unexpected error %v", test.a, err)
		}
		if !test.check(float64(got)) {
			t.Errorf("%s / 0: unexpected result %s", test.a, got)
		}
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		description string
		chunk       *chunk.Chunk
		cause       error
	}{
		{
			"missing return",
			buildChunk([]chunk.Value{1}, chunk.Constant(0)),
			vm.ErrMissingReturn,
		},
		{
			"empty chunk",
			chunk.New(),
			vm.ErrMissingReturn,
		},
		{
			"underflow on return",
			buildChunk(nil, chunk.Simple(chunk.OpReturn)),
			vm.ErrStackUnderflow,
		},
		{
			"underflow on binary op",
			buildChunk([]chunk.Value{1}, chunk.Constant(0), chunk.Simple(chunk.OpAdd), chunk.Simple(chunk.OpReturn)),
			vm.ErrStackUnderflow,
		},
		{
			"underflow on negate",
			buildChunk(nil, chunk.Simple(chunk.OpNegate)),
			vm.ErrStackUnderflow,
		},
		{
			"bad constant index",
			buildChunk([]chunk.Value{1}, chunk.Constant(1), chunk.Simple(chunk.OpReturn)),
			vm.ErrConstantIndex,
		},
		{
			"negative constant index",
			buildChunk([]chunk.Value{1}, chunk.Constant(-1), chunk.Simple(chunk.OpReturn)),
			vm.ErrConstantIndex,
		},
		{
			"unknown opcode",
			buildChunk(nil, chunk.Simple(chunk.OpCode(200))),
			vm.ErrUnknownOpcode,
		},
		{
			"nil chunk",
			nil,
			vm.ErrNoChunk,
		},
	}

	for _, test := range tests {
		machine := vm.New()
		_, err := machine.Interpret(test.chunk)
		if err == nil {
			t.Errorf("%s: expected error", test.description)
			continue
		}

		var rtErr *vm.RuntimeError
		if !errors.As(err, &rtErr) {
			t.Errorf("%s: expected *vm.RuntimeError, got %T", test.description, err)
		}
		if !errors.Is(err, test.cause) {
			t.Errorf("%s: expected cause %v, got %v", test.description, test.cause, err)
		}
		if machine.State() != vm.StateHaltedRuntimeError {
			t.Errorf("%s: expected state %s, got %s", test.description, vm.StateHaltedRuntimeError, machine.State())
		}
		if res := vm.ResultOf(err); res != vm.InterpretRuntimeError || res.ExitCode() != 70 {
			t.Errorf("%s: expected runtime error result, got %s", test.description, res)
		}
		if _, ok := machine.Result(); ok {
			t.Errorf("%s: expected no result after a fault", test.description)
		}
	}
}

func TestStackOverflow(t *testing.T) {
	c := buildChunk([]chunk.Value{1},
		chunk.Constant(0), chunk.Constant(0), chunk.Constant(0), chunk.Simple(chunk.OpReturn))

	machine := vm.New(vm.WithStackSize(2))
	_, err := machine.Interpret(c)
	if !errors.Is(err, vm.ErrStackOverflow) {
		t.Fatalf("expected %v, got %v", vm.ErrStackOverflow, err)
	}

	var rtErr *vm.RuntimeError
	if errors.As(err, &rtErr) && rtErr.Offset != 2 {
		t.Errorf("expected fault at offset 2, got %d", rtErr.Offset)
	}
}

func TestRuntimeErrorLocation(t *testing.T) {
	c := chunk.New()
	c.WriteConstant(1, 3)
	c.Write(chunk.Simple(chunk.OpAdd), 4)

	_, err := vm.New().Interpret(c)

	var rtErr *vm.RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *vm.RuntimeError, got %v", err)
	}
	if rtErr.Line != 4 || rtErr.Offset != 1 || rtErr.Op != chunk.OpAdd {
		t.Errorf("expected line 4, offset 1, OP_ADD, got %+v", rtErr)
	}
	if !strings.Contains(err.Error(), "[line 4]") {
		t.Errorf("expected line in message, got %q", err.Error())
	}
}

func TestStateDoesNotLeakBetweenRuns(t *testing.T) {
	machine := vm.New()

	leaky := buildChunk([]chunk.Value{1, 2}, chunk.Constant(0), chunk.Constant(1))
	if _, err := machine.Interpret(leaky); err == nil {
		t.Fatalf("expected missing return error")
	}

	// would pop the leftover 2 if the stack were not reset
	ok := buildChunk([]chunk.Value{7}, chunk.Constant(0), chunk.Simple(chunk.OpReturn))
	got, err := machine.Interpret(ok)
	if err != nil {
		t.Fatalf("interpret error: %v", err)
	}
	if got != 7 || machine.StackSize() != 0 {
		t.Errorf("expected 7 and an empty stack, got %s with %d values", got, machine.StackSize())
	}

	underflow := buildChunk(nil, chunk.Simple(chunk.OpReturn))
	if _, err := machine.Interpret(underflow); !errors.Is(err, vm.ErrStackUnderflow) {
		t.Errorf("expected %v, got %v", vm.ErrStackUnderflow, err)
	}
}

func TestChunkRemainsExecutableAfterDisassembly(t *testing.T) {
	c := buildChunk([]chunk.Value{2, 3},
		chunk.Constant(0), chunk.Constant(1), chunk.Simple(chunk.OpMultiply), chunk.Simple(chunk.OpReturn))

	var buf bytes.Buffer
	c.Disassemble(&buf, "before")

	got, err := vm.New().Interpret(c)
	if err != nil || got != 6 {
		t.Errorf("expected 6, got %s (%v)", got, err)
	}
}

func TestStep(t *testing.T) {
	c := buildChunk([]chunk.Value{4}, chunk.Constant(0), chunk.Simple(chunk.OpNegate), chunk.Simple(chunk.OpReturn))

	machine := vm.New()
	machine.Load(c)
	if machine.State() != vm.StateRunning {
		t.Fatalf("expected state %s, got %s", vm.StateRunning, machine.State())
	}

	expected := []bool{false, false, true}
	for i, want := range expected {
		halted, err := machine.Step()
		if err != nil {
			t.Fatalf("step %d: unexpected error %v", i, err)
		}
		if halted != want {
			t.Errorf("step %d: expected halted=%v, got %v", i, want, halted)
		}
	}

	if v, ok := machine.Result(); !ok || v != -4 {
		t.Errorf("expected -4, got %s (%v)", v, ok)
	}
	if halted, err := machine.Step(); !halted || err != nil {
		t.Errorf("expected halted VM to stay halted, got %v %v", halted, err)
	}
}

func TestTrace(t *testing.T) {
	c := buildChunk([]chunk.Value{1.5}, chunk.Constant(0), chunk.Simple(chunk.OpReturn))

	var buf bytes.Buffer
	if _, err := vm.New(vm.WithTrace(&buf)).Interpret(c); err != nil {
		t.Fatalf("interpret error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"OP_CONSTANT", "[ 1.5 ]", "OP_RETURN"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected trace to contain %q, got:\n%s", want, out)
		}
	}
}

func TestInterpretSource(t *testing.T) {
	compileErr := errors.New("bad token")

	tests := []struct {
		description string
		compile     vm.CompileFunc
		result      vm.InterpretResult
		state       vm.State
		value       chunk.Value
		hasValue    bool
	}{
		{
			"compile failure",
			func(string) (*chunk.Chunk, error) { return nil, compileErr },
			vm.InterpretCompileError,
			vm.StateHaltedCompileError,
			0, false,
		},
		{
			"no code",
			func(string) (*chunk.Chunk, error) { return nil, nil },
			vm.InterpretOK,
			vm.StateHaltedOK,
			0, false,
		},
		{
			"compiled chunk",
			func(string) (*chunk.Chunk, error) {
				return buildChunk([]chunk.Value{9}, chunk.Constant(0), chunk.Simple(chunk.OpReturn)), nil
			},
			vm.InterpretOK,
			vm.StateHaltedOK,
			9, true,
		},
		{
			"runtime failure",
			func(string) (*chunk.Chunk, error) { return chunk.New(), nil },
			vm.InterpretRuntimeError,
			vm.StateHaltedRuntimeError,
			0, false,
		},
	}

	for _, test := range tests {
		machine := vm.New()
		_, err := machine.InterpretSource("source", test.compile)

		if res := vm.ResultOf(err); res != test.result {
			t.Errorf("%s: expected %s, got %s", test.description, test.result, res)
		}
		if machine.State() != test.state {
			t.Errorf("%s: expected state %s, got %s", test.description, test.state, machine.State())
		}
		if v, ok := machine.Result(); ok != test.hasValue || v != test.value {
			t.Errorf("%s: expected result %s (%v), got %s (%v)", test.description, test.value, test.hasValue, v, ok)
		}
	}

	_, err := vm.New().InterpretSource("", tests[0].compile)
	if !errors.Is(err, compileErr) {
		t.Errorf("expected compile error to wrap %v, got %v", compileErr, err)
	}
	if vm.ResultOf(err).ExitCode() != 65 {
		t.Errorf("expected exit code 65, got %d", vm.ResultOf(err).ExitCode())
	}
}
