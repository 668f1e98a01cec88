package compiler

import (
	"fmt"
	"io"
	"strings"

	"loxvm/pkg/chunk"
	"loxvm/pkg/scanner"
)

// Diagnostic is a single lexical error found while scanning
type Diagnostic struct {
	Line    int    // source line of the offending token
	Lexeme  string // offending source text
	Message string // scanner message
}

// String renders the diagnostic in "[line N] Error at 'x': message" form
func (d Diagnostic) String() string {
	if d.Lexeme == "" {
		return fmt.Sprintf("[line %d] Error: %s", d.Line, d.Message)
	}

	return fmt.Sprintf("[line %d] Error at '%s': %s", d.Line, d.Lexeme, d.Message)
}

// Error collects every lexical error of one compilation
type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	lines := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		lines = append(lines, d.String())
	}

	return strings.Join(lines, "\n")
}

// Compile scans source and reports lexical errors.
// Code generation is not implemented yet, so a clean source yields a nil chunk.
func Compile(source string) (*chunk.Chunk, error) {
	var diags []Diagnostic

	for tok := range scanner.New(source).All() {
		if tok.Type != scanner.Error {
			continue
		}

		end := tok.Start + tok.Length
		diags = append(diags, Diagnostic{
			Line:    tok.Line,
			Lexeme:  source[tok.Start:end],
			Message: tok.Message,
		})
	}

	if len(diags) > 0 {
		return nil, &Error{Diagnostics: diags}
	}

	return nil, nil
}

// ListTokens writes one line per token, grouping tokens that share a source line
func ListTokens(w io.Writer, source string) {
	line := -1

	for tok := range scanner.New(source).All() {
		if tok.Line != line {
			fmt.Fprintf(w, "%4d ", tok.Line)
			line = tok.Line
		} else {
			fmt.Fprint(w, "   | ")
		}

		fmt.Fprintf(w, "%-12s '%s'\n", tok.Type, tok.Lexeme(source))
	}
}
