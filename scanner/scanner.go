// Package scanner turns source text into a lazy stream of tokens. It holds
// no buffer of past or future tokens: ScanToken produces exactly one token
// per call, on demand, the way the compiler wants them.
package scanner

import "wisp/token"

// Scanner is a cursor over source text.
type Scanner struct {
	source  string
	start   int
	current int
	line    int

	// errMessage holds the diagnostic text for the most recently produced
	// Error token. A Token carries no owned string, so this is the only
	// place that text lives; it is only meaningful immediately after a
	// ScanToken call returns a token.Error token.
	errMessage string
}

// New returns a Scanner positioned at the start of source.
func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

// ErrorMessage returns the diagnostic produced by the most recent Error
// token, e.g. "Unterminated string." or "Unexpected character.".
func (s *Scanner) ErrorMessage() string {
	return s.errMessage
}

// ScanToken returns the next token in the source.
func (s *Scanner) ScanToken() token.Token {
	s.skipWhitespace()
	s.start = s.current

	if s.isAtEnd() {
		return s.makeToken(token.EOF)
	}

	c := s.advance()

	switch {
	case isAlpha(c):
		return s.identifier()
	case isDigit(c):
		return s.number()
	}

	switch c {
	case '(':
		return s.makeToken(token.LeftParen)
	case ')':
		return s.makeToken(token.RightParen)
	case '{':
		return s.makeToken(token.LeftBrace)
	case '}':
		return s.makeToken(token.RightBrace)
	case ';':
		return s.makeToken(token.Semicolon)
	case ',':
		return s.makeToken(token.Comma)
	case '.':
		return s.makeToken(token.Dot)
	case '-':
		return s.makeToken(token.Minus)
	case '+':
		return s.makeToken(token.Plus)
	case '/':
		return s.makeToken(token.Slash)
	case '*':
		return s.makeToken(token.Star)
	case '!':
		if s.match('=') {
			return s.makeToken(token.BangEqual)
		}
		return s.makeToken(token.Bang)
	case '=':
		if s.match('=') {
			return s.makeToken(token.EqualEqual)
		}
		return s.makeToken(token.Equal)
	case '<':
		if s.match('=') {
			return s.makeToken(token.LessEqual)
		}
		return s.makeToken(token.Less)
	case '>':
		if s.match('=') {
			return s.makeToken(token.GreaterEqual)
		}
		return s.makeToken(token.Greater)
	case '"':
		return s.string()
	}

	return s.errorToken("Unexpected character.")
}

func (s *Scanner) makeToken(kind token.Kind) token.Token {
	return token.Token{
		Kind:   kind,
		Start:  s.start,
		Length: s.current - s.start,
		Line:   s.line,
	}
}

func (s *Scanner) errorToken(message string) token.Token {
	s.errMessage = message
	return token.Token{
		Kind:   token.Error,
		Start:  s.start,
		Length: s.current - s.start,
		Line:   s.line,
	}
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
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

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.isAtEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.isAtEnd() {
		return s.errorToken("Unterminated string.")
	}

	s.advance()
	return s.makeToken(token.String)
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	return s.makeToken(token.Number)
}

// identifier scans a run of alphanumeric characters and resolves it to a
// keyword kind by leading-character dispatch with a tail comparison,
// falling back to token.Identifier.
func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	return s.makeToken(s.identifierKind())
}

func (s *Scanner) identifierKind() token.Kind {
	switch s.source[s.start] {
	case 'a':
		return s.checkKeyword(1, "nd", token.And)
	case 'c':
		return s.checkKeyword(1, "lass", token.Class)
	case 'e':
		return s.checkKeyword(1, "lse", token.Else)
	case 'f':
		if s.current-s.start > 1 {
			switch s.source[s.start+1] {
			case 'a':
				return s.checkKeyword(2, "lse", token.False)
			case 'o':
				return s.checkKeyword(2, "r", token.For)
			case 'u':
				return s.checkKeyword(2, "n", token.Fun)
			}
		}
	case 'i':
		return s.checkKeyword(1, "f", token.If)
	case 'n':
		return s.checkKeyword(1, "il", token.Nil)
	case 'o':
		return s.checkKeyword(1, "r", token.Or)
	case 'p':
		return s.checkKeyword(1, "rint", token.Print)
	case 'r':
		return s.checkKeyword(1, "eturn", token.Return)
	case 's':
		return s.checkKeyword(1, "uper", token.Super)
	case 't':
		if s.current-s.start > 1 {
			switch s.source[s.start+1] {
			case 'h':
				return s.checkKeyword(2, "is", token.This)
			case 'r':
				return s.checkKeyword(2, "ue", token.True)
			}
		}
	case 'v':
		return s.checkKeyword(1, "ar", token.Var)
	case 'w':
		return s.checkKeyword(1, "hile", token.While)
	}
	return token.Identifier
}

// checkKeyword compares source[start+offset : start+offset+len(rest)]
// against rest; a match yields kind, otherwise the lexeme is a plain
// Identifier.
func (s *Scanner) checkKeyword(offset int, rest string, kind token.Kind) token.Kind {
	lo := s.start + offset
	hi := lo + len(rest)
	if hi <= s.current && s.source[lo:hi] == rest && s.current-s.start == offset+len(rest) {
		return kind
	}
	return token.Identifier
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
