package vm

import (
	"fmt"

	"wisp/compiler"
)

// RuntimeError describes a runtime failure. The VM never panics with it:
// it prints its Error() text and Interpret returns RuntimeErrorResult.
// Its Error() string mirrors the reference interpreter's runtime_error: the message, then the
// offending opcode, then the source line.
type RuntimeError struct {
	Message string
	Op      compiler.Op
	Line    int
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("%s\n%s\n[line %d] in script", e.Message, e.Op, e.Line)
}
