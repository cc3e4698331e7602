// Package debug implements an external disassembler over a compiled
// Chunk. It has no effect on interpretation and the interpreter itself
// does not call it; it exists purely to let a caller inspect what the
// compiler produced.
package debug

import (
	"fmt"
	"strings"

	"wisp/compiler"
)

// Disassemble renders every instruction in chunk, one line per
// instruction, in the style of the reference interpreter's
// dissassemble_chunk: a "== name ==" header followed by one line per
// instruction.
func Disassemble(chunk *compiler.Chunk, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)

	for offset := 0; offset < len(chunk.Code); {
		line, next := DisassembleInstruction(chunk, offset)
		b.WriteString(line)
		b.WriteByte('\n')
		offset = next
	}

	return b.String()
}

// DisassembleInstruction renders the instruction at offset and returns the
// offset of the instruction that follows it (every instruction here is a
// fixed one-slot record, so next is always offset+1).
func DisassembleInstruction(chunk *compiler.Chunk, offset int) (string, int) {
	ins := chunk.Code[offset]

	lineField := fmt.Sprintf("%4d", ins.Line)
	if offset > 0 && chunk.Code[offset-1].Line == ins.Line {
		lineField = "   |"
	}

	prefix := fmt.Sprintf("%04d %s %-16s", offset, lineField, ins.Op)

	if !ins.Op.HasOperand() {
		return prefix, offset + 1
	}

	switch ins.Op {
	case compiler.Constant:
		return fmt.Sprintf("%s %4d '%s'", prefix, ins.Operand, chunk.Constants[ins.Operand]), offset + 1
	default:
		return fmt.Sprintf("%s %4d", prefix, ins.Operand), offset + 1
	}
}
