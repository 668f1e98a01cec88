package scanner

import (
	"fmt"
)

type TokenType int

type Token struct {
	Type    TokenType // Type of the token
	Start   int       // Byte offset of the token in the source
	Length  int       // Length of the token in bytes
	Line    int       // Source line the token ends on
	Message string    // Error message, only set for Error tokens
}

const (
	// Single-character tokens.
	LeftParen  TokenType = iota // (
	RightParen                  // )
	LeftBrace                   // {
	RightBrace                  // }
	Comma                       // ,
	Dot                         // .
	Minus                       // -
	Plus                        // +
	Semicolon                   // ;
	Slash                       // /
	Star                        // *

	// One or two character tokens.
	Bang         // !
	BangEqual    // !=
	Equal        // =
	EqualEqual   // ==
	Greater      // >
	GreaterEqual // >=
	Less         // <
	LessEqual    // <=

	// Literals.
	Identifier // identifier
	String     // string literal
	Number     // number literal

	// Keywords.
	And    // and
	Class  // class
	Else   // else
	False  // false
	For    // for
	Fun    // fun
	If     // if
	Nil    // nil
	Or     // or
	Print  // print
	Return // return
	Super  // super
	This   // this
	True   // true
	Var    // var
	While  // while

	Error // lexical error
	EOF   // end of input
)

var tokenNames = map[TokenType]string{
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Dot:          ".",
	Minus:        "-",
	Plus:         "+",
	Semicolon:    ";",
	Slash:        "/",
	Star:         "*",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	Identifier:   "identifier",
	String:       "string",
	Number:       "number",
	And:          "and",
	Class:        "class",
	Else:         "else",
	False:        "false",
	For:          "for",
	Fun:          "fun",
	If:           "if",
	Nil:          "nil",
	Or:           "or",
	Print:        "print",
	Return:       "return",
	Super:        "super",
	This:         "this",
	True:         "true",
	Var:          "var",
	While:        "while",
	Error:        "error",
	EOF:          "EOF",
}

// Keywords maps every reserved word to its token type
var Keywords = map[string]TokenType{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := tokenNames[t]; ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// IsKeyword reports whether the token type is a reserved word
func (t TokenType) IsKeyword() bool {
	return t >= And && t <= While
}

// Lexeme returns the source text the token covers.
// Error tokens return their message instead.
func (t Token) Lexeme(source string) string {
	if t.Type == Error {
		return t.Message
	}

	end := t.Start + t.Length
	if t.Start < 0 || end > len(source) || t.Start > end {
		return ""
	}

	return source[t.Start:end]
}

// String returns a string representation of the Token
func (t Token) String() string {
	if t.Type == Error {
		return fmt.Sprintf("T_{%s, %q, %d}", t.Type, t.Message, t.Line)
	}

	return fmt.Sprintf("T_{%s, %d+%d, %d}", t.Type, t.Start, t.Length, t.Line)
}
