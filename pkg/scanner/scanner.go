package scanner

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

type Scanner struct {
	source  string // source buffer, never copied into tokens
	start   int    // start of the token being scanned
	current int    // next unread byte
	line    int    // current line number for error reporting
}

// Create a new scanner instance
func New(source string) *Scanner {
	return &Scanner{
		source:  source,
		start:   0,
		current: 0,
		line:    1,
	}
}

// Source returns the buffer tokens refer into
func (s *Scanner) Source() string {
	return s.source
}

// ScanToken scans and returns the next token.
// Once the input is exhausted every call returns an EOF token.
func (s *Scanner) ScanToken() Token {
	s.skipWhitespace()
	s.start = s.current

	if s.isAtEnd() {
		return s.makeToken(EOF)
	}

	c, size := s.advance()
	if size == 1 && c == utf8.RuneError {
		return s.errorToken("Unexpected character.")
	}

	if isAlpha(c) {
		return s.identifier()
	}

	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.makeToken(LeftParen)
	case ')':
		return s.makeToken(RightParen)
	case '{':
		return s.makeToken(LeftBrace)
	case '}':
		return s.makeToken(RightBrace)
	case ';':
		return s.makeToken(Semicolon)
	case ',':
		return s.makeToken(Comma)
	case '.':
		return s.makeToken(Dot)
	case '-':
		return s.makeToken(Minus)
	case '+':
		return s.makeToken(Plus)
	case '/':
		return s.makeToken(Slash)
	case '*':
		return s.makeToken(Star)
	case '!':
		return s.makeToken(s.pick('=', BangEqual, Bang))
	case '=':
		return s.makeToken(s.pick('=', EqualEqual, Equal))
	case '<':
		return s.makeToken(s.pick('=', LessEqual, Less))
	case '>':
		return s.makeToken(s.pick('=', GreaterEqual, Greater))
	case '"':
		return s.stringLiteral()
	}

	return s.errorToken("Unexpected character.")
}

// All returns the remaining tokens as a lazy sequence, ending with EOF
func (s *Scanner) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok := s.ScanToken()
			if !yield(tok) || tok.Type == EOF {
				return
			}
		}
	}
}

// Skip whitespace and line comments
func (s *Scanner) skipWhitespace() {
	for !s.isAtEnd() {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.current++
		case '\n':
			s.line++
			s.current++
		case '/':
			if s.peekNext() != '/' {
				return
			}
			// a comment runs until the end of the line
			for !s.isAtEnd() && s.peek() != '\n' {
				s.current++
			}
		default:
			return
		}
	}
}

func (s *Scanner) identifier() Token {
	for !s.isAtEnd() {
		r, size := utf8.DecodeRuneInString(s.source[s.current:])
		if !isAlpha(r) && !isDigit(r) {
			break
		}
		s.current += size
	}

	return s.makeToken(s.identifierType())
}

func (s *Scanner) number() Token {
	for isDigit(rune(s.peek())) {
		s.current++
	}

	// the dot is only part of the number when a digit follows it
	if s.peek() == '.' && isDigit(rune(s.peekNext())) {
		s.current++
		for isDigit(rune(s.peek())) {
			s.current++
		}
	}

	return s.makeToken(Number)
}

func (s *Scanner) stringLiteral() Token {
	for !s.isAtEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.current++
	}

	if s.isAtEnd() {
		return s.errorToken("Unterminated string.")
	}

	// closing quote
	s.current++
	return s.makeToken(String)
}

// identifierType classifies the lexeme between start and current as a keyword or identifier
func (s *Scanner) identifierType() TokenType {
	lexeme := s.source[s.start:s.current]

	switch lexeme[0] {
	case 'a':
		return s.checkKeyword(1, "nd", And)
	case 'c':
		return s.checkKeyword(1, "lass", Class)
	case 'e':
		return s.checkKeyword(1, "lse", Else)
	case 'f':
		if len(lexeme) > 1 {
			switch lexeme[1] {
			case 'a':
				return s.checkKeyword(2, "lse", False)
			case 'o':
				return s.checkKeyword(2, "r", For)
			case 'u':
				return s.checkKeyword(2, "n", Fun)
			}
		}
	case 'i':
		return s.checkKeyword(1, "f", If)
	case 'n':
		return s.checkKeyword(1, "il", Nil)
	case 'o':
		return s.checkKeyword(1, "r", Or)
	case 'p':
		return s.checkKeyword(1, "rint", Print)
	case 'r':
		return s.checkKeyword(1, "eturn", Return)
	case 's':
		return s.checkKeyword(1, "uper", Super)
	case 't':
		if len(lexeme) > 1 {
			switch lexeme[1] {
			case 'h':
				return s.checkKeyword(2, "is", This)
			case 'r':
				return s.checkKeyword(2, "ue", True)
			}
		}
	case 'v':
		return s.checkKeyword(1, "ar", Var)
	case 'w':
		return s.checkKeyword(1, "hile", While)
	}

	return Identifier
}

// checkKeyword matches the rest of the lexeme, starting at offset, against a keyword suffix
func (s *Scanner) checkKeyword(offset int, rest string, t TokenType) TokenType {
	if s.current-s.start == offset+len(rest) && s.source[s.start+offset:s.current] == rest {
		return t
	}

	return Identifier
}

// pick consumes expected when it is next and returns matched, otherwise single
func (s *Scanner) pick(expected byte, matched, single TokenType) TokenType {
	if s.match(expected) {
		return matched
	}

	return single
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}

	s.current++
	return true
}

// Advance one UTF-8 encoded character
func (s *Scanner) advance() (rune, int) {
	r, size := utf8.DecodeRuneInString(s.source[s.current:])
	s.current += size
	return r, size
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}

	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}

	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) makeToken(t TokenType) Token {
	return Token{
		Type:   t,
		Start:  s.start,
		Length: s.current - s.start,
		Line:   s.line,
	}
}

func (s *Scanner) errorToken(message string) Token {
	return Token{
		Type:    Error,
		Start:   s.start,
		Length:  s.current - s.start,
		Line:    s.line,
		Message: message,
	}
}

// Check if a rune can start or continue an identifier
func isAlpha(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// Check if a rune is an ASCII digit
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
