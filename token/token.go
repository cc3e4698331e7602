// Package token defines the lexical tokens produced by the scanner and
// consumed by the compiler.
package token

import "fmt"

// Kind classifies a Token. Kind values are comparable and cheap to pass
// around, unlike the lexeme itself which is recovered lazily by slicing
// the source.
type Kind int

const (
	// single-character punctuation
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// one or two character operators
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// literals
	Identifier
	String
	Number

	// keywords
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	// sentinels
	Error
	EOF
)

var names = map[Kind]string{
	LeftParen:    "LeftParen",
	RightParen:   "RightParen",
	LeftBrace:    "LeftBrace",
	RightBrace:   "RightBrace",
	Comma:        "Comma",
	Dot:          "Dot",
	Minus:        "Minus",
	Plus:         "Plus",
	Semicolon:    "Semicolon",
	Slash:        "Slash",
	Star:         "Star",
	Bang:         "Bang",
	BangEqual:    "BangEqual",
	Equal:        "Equal",
	EqualEqual:   "EqualEqual",
	Greater:      "Greater",
	GreaterEqual: "GreaterEqual",
	Less:         "Less",
	LessEqual:    "LessEqual",
	Identifier:   "Identifier",
	String:       "String",
	Number:       "Number",
	And:          "And",
	Class:        "Class",
	Else:         "Else",
	False:        "False",
	For:          "For",
	Fun:          "Fun",
	If:           "If",
	Nil:          "Nil",
	Or:           "Or",
	Print:        "Print",
	Return:       "Return",
	Super:        "Super",
	This:         "This",
	True:         "True",
	Var:          "Var",
	While:        "While",
	Error:        "Error",
	EOF:          "EOF",
}

func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved identifiers to their keyword Kind. Anything not
// found here that starts with a letter or underscore is an Identifier.
var Keywords = map[string]Kind{
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

// Token is a lexical token. It carries no owned copy of its lexeme; the
// lexeme is recovered by slicing the source with Start and Length.
type Token struct {
	Kind   Kind
	Start  int
	Length int
	Line   int
}

// Lexeme slices the lexeme for this token out of the original source text.
// For an Error token, Start/Length cover the offending source text; the
// diagnostic message itself is available from the scanner's ErrorMessage.
func (t Token) Lexeme(source string) string {
	return source[t.Start : t.Start+t.Length]
}

func (t Token) String() string {
	return fmt.Sprintf("Token{Kind: %s, Start: %d, Length: %d, Line: %d}", t.Kind, t.Start, t.Length, t.Line)
}
