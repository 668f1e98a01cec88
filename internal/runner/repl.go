package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"loxvm/pkg/color"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"
)

const banner = "loxvm REPL. Ctrl+C cancels input, Ctrl+D exits."

// REPL reads lines until end of input, interpreting each one on a shared VM.
// Errors are reported and the loop keeps going.
func (r *Runner) REPL() error {
	fmt.Fprintln(r.out(), color.GrayText(banner))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := r.historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	machine := r.newVM()
	for {
		line, err := ln.Prompt(r.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out())
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if err := r.interpretSource(machine, line); err != nil {
			r.ReportError(err)
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		} else {
			log.Warn("Cannot save history", "file", histPath, "error", err)
		}
	}

	return nil
}

func (r *Runner) historyPath() string {
	if r.History == "" {
		return ""
	}
	if filepath.IsAbs(r.History) {
		return r.History
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, r.History)
}
