package compiler

import (
	"testing"

	"wisp/heap"
	"wisp/value"
)

func opsOf(chunk *Chunk) []Op {
	ops := make([]Op, len(chunk.Code))
	for i, ins := range chunk.Code {
		ops[i] = ins.Op
	}
	return ops
}

func sameOps(got, want []Op) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	chunk, ok, errs := Compile("1 + 2 * 3;", heap.New())
	if !ok {
		t.Fatalf("Compile() ok = false, errs = %v", errs)
	}

	want := []Op{Constant, Constant, Constant, Multiply, Add}
	if got := opsOf(chunk); !sameOps(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestCompileComparisonDesugaring(t *testing.T) {
	tests := []struct {
		source string
		want   []Op
	}{
		{"1 != 2;", []Op{Constant, Constant, Equal, Not}},
		{"1 >= 2;", []Op{Constant, Constant, Less, Not}},
		{"1 <= 2;", []Op{Constant, Constant, Greater, Not}},
	}

	for _, tt := range tests {
		chunk, ok, errs := Compile(tt.source, heap.New())
		if !ok {
			t.Fatalf("Compile(%q) failed: %v", tt.source, errs)
		}
		if got := opsOf(chunk); !sameOps(got, tt.want) {
			t.Errorf("Compile(%q) ops = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestCompileUnary(t *testing.T) {
	chunk, ok, errs := Compile("!nil;", heap.New())
	if !ok {
		t.Fatalf("Compile() failed: %v", errs)
	}
	if got, want := opsOf(chunk), []Op{OpNil, Not}; !sameOps(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}

	chunk, ok, errs = Compile("-4;", heap.New())
	if !ok {
		t.Fatalf("Compile() failed: %v", errs)
	}
	if got, want := opsOf(chunk), []Op{Constant, Negate}; !sameOps(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestCompileGlobalVariable(t *testing.T) {
	chunk, ok, errs := Compile(`var x = 5; print x;`, heap.New())
	if !ok {
		t.Fatalf("Compile() failed: %v", errs)
	}
	want := []Op{Constant, DefineGlobal, GetGlobal, Print}
	if got := opsOf(chunk); !sameOps(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestCompileLocalVariableInBlock(t *testing.T) {
	chunk, ok, errs := Compile(`{ var x = 5; print x; }`, heap.New())
	if !ok {
		t.Fatalf("Compile() failed: %v", errs)
	}
	want := []Op{Constant, GetLocal, Print, Pop}
	if got := opsOf(chunk); !sameOps(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestCompileExpressionStatementEmitsNoPop(t *testing.T) {
	chunk, ok, errs := Compile("1 + 1;", heap.New())
	if !ok {
		t.Fatalf("Compile() failed: %v", errs)
	}
	for _, ins := range chunk.Code {
		if ins.Op == Pop {
			t.Fatalf("expression statement emitted a Pop, ops = %v", opsOf(chunk))
		}
	}
}

func TestCompileStringLiteralInternsIntoHeap(t *testing.T) {
	h := heap.New()
	chunk, ok, errs := Compile(`"hello";`, h)
	if !ok {
		t.Fatalf("Compile() failed: %v", errs)
	}
	if len(chunk.Constants) != 1 || chunk.Constants[0].Kind != value.KindObj {
		t.Fatalf("Constants = %v, want one Obj value", chunk.Constants)
	}
	if got := h.String(chunk.Constants[0].Obj); got != "hello" {
		t.Errorf("heap string = %q, want %q", got, "hello")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing semicolon", "print 1"},
		{"missing expression", "print ;"},
		{"uninitialized self read", "{ var a = a; }"},
		{"redeclared local", "{ var a = 1; var a = 2; }"},
		{"invalid assignment target", "1 = 2;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, errs := Compile(tt.source, heap.New())
			if ok {
				t.Fatalf("Compile(%q) ok = true, want a compile error", tt.source)
			}
			if len(errs) == 0 {
				t.Fatalf("Compile(%q) returned no errors", tt.source)
			}
		})
	}
}

func TestCompileCollectsMultipleErrors(t *testing.T) {
	_, ok, errs := Compile("print ; print ;", heap.New())
	if ok {
		t.Fatalf("Compile() ok = true, want false")
	}
	if len(errs) < 2 {
		t.Errorf("Compile() collected %d errors, want at least 2: %v", len(errs), errs)
	}
}

func TestConstantPoolOverflow(t *testing.T) {
	c := NewChunk()
	for i := 0; i < 256; i++ {
		if _, err := c.AddConstant(value.Number(float64(i))); err != nil {
			t.Fatalf("AddConstant(%d) = %v, want nil", i, err)
		}
	}
	if _, err := c.AddConstant(value.Number(256)); err == nil {
		t.Fatalf("AddConstant past 256 = nil error, want \"Too many constants in one chunk.\"")
	}
}
