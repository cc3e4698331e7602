package compiler

import "fmt"

// CompileError is one compile-time diagnostic. The compiler collects one
// per error it recovers from via synchronization, rather than stopping at
// the first.
type CompileError struct {
	Line    int
	Where   string // "at end" or "at '<lexeme>'"; empty when the position is not reported
	Message string
}

func (e CompileError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] Error %s: %s", e.Line, e.Where, e.Message)
}
