package debug

import (
	"strings"
	"testing"

	"wisp/heap"

	"wisp/compiler"
)

func TestDisassembleAnnotatesConstantsAndSkipsRepeatedLines(t *testing.T) {
	chunk, ok, errs := compiler.Compile("print 1 + 2;", heap.New())
	if !ok {
		t.Fatalf("Compile() failed: %v", errs)
	}

	out := Disassemble(chunk, "test")
	if !strings.HasPrefix(out, "== test ==\n") {
		t.Fatalf("Disassemble() header = %q", out)
	}
	if !strings.Contains(out, "OP_CONSTANT") {
		t.Errorf("Disassemble() = %q, want it to mention OP_CONSTANT", out)
	}
	if !strings.Contains(out, "OP_ADD") {
		t.Errorf("Disassemble() = %q, want it to mention OP_ADD", out)
	}
	if !strings.Contains(out, "OP_PRINT") {
		t.Errorf("Disassemble() = %q, want it to mention OP_PRINT", out)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	sameLineCount := 0
	for _, line := range lines[1:] {
		if strings.Contains(line, "   |") {
			sameLineCount++
		}
	}
	if sameLineCount == 0 {
		t.Errorf("expected at least one repeated-line marker, got none in %q", out)
	}
}

func TestDisassembleInstructionAdvancesOffsetByOne(t *testing.T) {
	chunk, ok, errs := compiler.Compile("print nil;", heap.New())
	if !ok {
		t.Fatalf("Compile() failed: %v", errs)
	}

	_, next := DisassembleInstruction(chunk, 0)
	if next != 1 {
		t.Errorf("DisassembleInstruction() next = %d, want 1", next)
	}
}
