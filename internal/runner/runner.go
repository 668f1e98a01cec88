package runner

import (
	"errors"
	"fmt"
	"io"
	"os"

	"loxvm/internal/config"
	"loxvm/pkg/chunk"
	"loxvm/pkg/color"
	"loxvm/pkg/compiler"
	"loxvm/pkg/vm"

	"github.com/charmbracelet/log"
)

type Runner struct {
	Help        bool   // Show help message
	Verbose     bool   // Enable verbose output
	NoColor     bool   // Disable colored output
	Trace       bool   // Trace every executed instruction
	Disassemble bool   // Print a listing of each chunk before running it
	PrintTokens bool   // Print the token listing of each source
	Demo        bool   // Run the built-in demo chunk
	StackSize   int    // Operand stack capacity, 0 for the configured default
	ConfigFile  string // Path to the configuration file
	SourceFile  string // Path to the source file, empty for the REPL
	Prompt      string // REPL prompt
	History     string // REPL history file name, relative to the home directory

	Out io.Writer // program output, defaults to stdout
	Err io.Writer // error reports, defaults to stderr
}

// ErrIO marks failures to read input
var ErrIO = errors.New("cannot read input")

// Merge fills unset options from cfg. Flags win over the file.
func (r *Runner) Merge(cfg *config.Config) {
	r.Trace = r.Trace || cfg.VM.Trace
	r.Disassemble = r.Disassemble || cfg.Debug.Disassemble
	r.PrintTokens = r.PrintTokens || cfg.Debug.PrintTokens

	if r.StackSize <= 0 {
		r.StackSize = cfg.VM.StackSize
	}
	if r.Prompt == "" {
		r.Prompt = cfg.REPL.Prompt
	}
	if r.History == "" {
		r.History = cfg.REPL.History
	}
}

// Run dispatches to the demo, the file runner or the REPL
func (r *Runner) Run() error {
	switch {
	case r.Demo:
		return r.RunDemo()
	case r.SourceFile != "":
		return r.RunFile(r.SourceFile)
	default:
		return r.REPL()
	}
}

// RunFile reads and interprets a source file
func (r *Runner) RunFile(path string) error {
	log.Info("Processing file", "file", path)

	input, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrIO, path, err)
	}

	return r.RunSource(string(input))
}

// RunSource interprets source on a fresh VM
func (r *Runner) RunSource(source string) error {
	return r.interpretSource(r.newVM(), source)
}

// RunDemo disassembles and runs the chunk for -((1.2 + 3.4) / 5.6)
func (r *Runner) RunDemo() error {
	c := DemoChunk()
	c.Disassemble(r.out(), "test chunk")

	machine := r.newVM()
	value, err := machine.Interpret(c)
	if err != nil {
		return err
	}

	r.printValue(value)
	return nil
}

// DemoChunk builds the demo program, all on line 123
func DemoChunk() *chunk.Chunk {
	c := chunk.New()
	c.WriteConstant(1.2, 123)
	c.WriteConstant(3.4, 123)
	c.Write(chunk.Simple(chunk.OpAdd), 123)
	c.WriteConstant(5.6, 123)
	c.Write(chunk.Simple(chunk.OpDivide), 123)
	c.Write(chunk.Simple(chunk.OpNegate), 123)
	c.Write(chunk.Simple(chunk.OpReturn), 123)
	return c
}

// ExitCode maps an error returned by Run to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, ErrIO) {
		return 74
	}

	return vm.ResultOf(err).ExitCode()
}

// ReportError writes err to the error stream, colored by outcome
func (r *Runner) ReportError(err error) {
	switch vm.ResultOf(err) {
	case vm.InterpretCompileError:
		fmt.Fprintln(r.errOut(), color.BrightRedText("=== Compile Errors ==="))
	case vm.InterpretRuntimeError:
		fmt.Fprintln(r.errOut(), color.BrightRedText("=== Runtime Error ==="))
	}

	fmt.Fprintln(r.errOut(), color.Error(err.Error()))
}

func (r *Runner) interpretSource(machine *vm.VM, source string) error {
	if r.PrintTokens {
		fmt.Fprintln(r.out(), color.GreenText("=== Tokens ==="))
		compiler.ListTokens(r.out(), source)
	}

	_, err := machine.InterpretSource(source, r.compile)
	if err != nil {
		return err
	}

	if value, ok := machine.Result(); ok {
		r.printValue(value)
	} else {
		log.Debug("No code generated", "state", machine.State())
	}

	return nil
}

func (r *Runner) compile(source string) (*chunk.Chunk, error) {
	c, err := compiler.Compile(source)
	if err != nil {
		return nil, err
	}

	if c != nil && r.Disassemble {
		c.Disassemble(r.out(), "code")
	}

	return c, nil
}

func (r *Runner) newVM() *vm.VM {
	opts := []vm.Option{vm.WithStackSize(r.StackSize)}
	if r.Trace {
		opts = append(opts, vm.WithTrace(r.out()))
	}

	return vm.New(opts...)
}

func (r *Runner) printValue(v chunk.Value) {
	if r.Verbose {
		fmt.Fprintln(r.out(), color.GreenText("=== Program Output ==="))
	}

	fmt.Fprintln(r.out(), color.CyanText(v.String()))
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r *Runner) errOut() io.Writer {
	if r.Err == nil {
		return os.Stderr
	}
	return r.Err
}
