package compiler

import (
	"errors"
	"fmt"

	"wisp/value"
)

// Op is a single VM instruction. Operand-carrying ops store their operand
// alongside the Op in Chunk.Code; Op itself is just the tag, the Go
// analogue of the Rust `enum Op` discriminant.
type Op int

const (
	Constant Op = iota
	OpNil
	True
	False
	Pop
	GetLocal
	SetLocal
	GetGlobal
	DefineGlobal
	SetGlobal
	Equal
	Greater
	Less
	Add
	Subtract
	Multiply
	Divide
	Not
	Negate
	Print
	JumpIfFalse
	Jump
	Loop
	Return
)

var opNames = map[Op]string{
	Constant:     "OP_CONSTANT",
	OpNil:        "OP_NIL",
	True:         "OP_TRUE",
	False:        "OP_FALSE",
	Pop:          "OP_POP",
	GetLocal:     "OP_GET_LOCAL",
	SetLocal:     "OP_SET_LOCAL",
	GetGlobal:    "OP_GET_GLOBAL",
	DefineGlobal: "OP_DEFINE_GLOBAL",
	SetGlobal:    "OP_SET_GLOBAL",
	Equal:        "OP_EQUAL",
	Greater:      "OP_GREATER",
	Less:         "OP_LESS",
	Add:          "OP_ADD",
	Subtract:     "OP_SUBTRACT",
	Multiply:     "OP_MULTIPLY",
	Divide:       "OP_DIVIDE",
	Not:          "OP_NOT",
	Negate:       "OP_NEGATE",
	Print:        "OP_PRINT",
	JumpIfFalse:  "OP_JUMP_IF_FALSE",
	Jump:         "OP_JUMP",
	Loop:         "OP_LOOP",
	Return:       "OP_RETURN",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// HasOperand reports whether op carries an operand in the instruction
// stream (a constant index, a local slot, or a jump offset).
func (op Op) HasOperand() bool {
	switch op {
	case Constant, GetLocal, SetLocal, GetGlobal, DefineGlobal, SetGlobal, JumpIfFalse, Jump, Loop:
		return true
	default:
		return false
	}
}

// maxConstants bounds the chunk's constant pool to indices 0..255 (256
// slots), the range of a byte-sized index, even though Operand is stored
// as an int.
const maxConstants = 256

// Instruction is one (Op, operand, line) triple. Operand is unused for ops
// that don't carry one.
type Instruction struct {
	Op      Op
	Operand int
	Line    int
}

// Chunk is an ordered instruction stream paired with its constant pool.
type Chunk struct {
	Code      []Instruction
	Constants []value.Value
}

// NewChunk returns an empty Chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Write appends an instruction carrying no operand.
func (c *Chunk) Write(op Op, line int) {
	c.Code = append(c.Code, Instruction{Op: op, Line: line})
}

// WriteOperand appends an instruction carrying operand.
func (c *Chunk) WriteOperand(op Op, operand int, line int) {
	c.Code = append(c.Code, Instruction{Op: op, Operand: operand, Line: line})
}

// AddConstant appends v to the constant pool and returns its index, or an
// error if the pool is full.
func (c *Chunk) AddConstant(v value.Value) (int, error) {
	if len(c.Constants) >= maxConstants {
		return 0, errors.New("Too many constants in one chunk.")
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1, nil
}
