package vm

import "errors"

// State is the lifecycle state of a VM
type State int

const (
	StateIdle State = iota
	StateRunning
	StateHaltedOK
	StateHaltedCompileError
	StateHaltedRuntimeError
)

// String returns a string representation of the State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateHaltedOK:
		return "halted(ok)"
	case StateHaltedCompileError:
		return "halted(compile error)"
	case StateHaltedRuntimeError:
		return "halted(runtime error)"
	default:
		return "unknown"
	}
}

// InterpretResult is the outcome of one interpretation request
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// ResultOf maps an error returned by Interpret or InterpretSource to its outcome
func ResultOf(err error) InterpretResult {
	if err == nil {
		return InterpretOK
	}

	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return InterpretCompileError
	}

	return InterpretRuntimeError
}

// ExitCode returns the conventional process exit code for the outcome
func (r InterpretResult) ExitCode() int {
	switch r {
	case InterpretCompileError:
		return 65
	case InterpretRuntimeError:
		return 70
	default:
		return 0
	}
}

// String returns a string representation of the InterpretResult
func (r InterpretResult) String() string {
	switch r {
	case InterpretOK:
		return "ok"
	case InterpretCompileError:
		return "compile error"
	default:
		return "runtime error"
	}
}
