// Package vm implements the stack-based virtual machine that executes a
// compiled Chunk.
package vm

import (
	"fmt"
	"io"
	"os"

	"wisp/compiler"
	"wisp/heap"
	"wisp/value"
)

// InterpretResult is the three-valued outcome of Interpret.
type InterpretResult int

const (
	Ok InterpretResult = iota
	CompileError
	RuntimeErrorResult
)

// VM is the runtime environment bytecode executes in. It exclusively owns
// the operand stack, the globals map, and the Heap; a Chunk is produced by
// the compiler and handed over for the VM to run.
type VM struct {
	chunk *compiler.Chunk
	ip    int

	stack   Stack
	globals map[string]value.Value
	heap    *heap.Heap

	trace bool
	out   io.Writer
}

// New constructs a VM with an empty globals map and a fresh Heap.
func New() *VM {
	vm := &VM{
		globals: make(map[string]value.Value),
		heap:    heap.New(),
		out:     os.Stdout,
	}
	vm.InitVM()
	return vm
}

// SetTrace toggles instruction tracing. Unlike the reference interpreter's
// mutable static flag, this is ordinary per-instance configuration.
func (vm *VM) SetTrace(trace bool) {
	vm.trace = trace
}

// SetOutput redirects Print output; tests use this to capture output
// without touching os.Stdout.
func (vm *VM) SetOutput(w io.Writer) {
	vm.out = w
}

// InitVM resets the per-run chunk, instruction pointer, and operand stack.
// It deliberately does not clear globals: the REPL relies on variables
// defined in one line surviving into the next.
func (vm *VM) InitVM() {
	vm.chunk = nil
	vm.ip = 0
	vm.stack = newStack()
}

// Interpret compiles source and, if compilation succeeds, runs it.
func (vm *VM) Interpret(source string) InterpretResult {
	chunk, ok, errs := compiler.Compile(source, vm.heap)
	if !ok {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err)
		}
		return CompileError
	}

	vm.chunk = chunk
	vm.ip = 0
	vm.stack.Reset()

	return vm.run()
}

func (vm *VM) run() InterpretResult {
	for {
		if vm.ip >= len(vm.chunk.Code) {
			return Ok
		}

		ins := vm.chunk.Code[vm.ip]

		if vm.trace {
			vm.traceInstruction(ins)
		}

		switch ins.Op {
		case compiler.Constant:
			vm.stack.Push(vm.chunk.Constants[ins.Operand])

		case compiler.OpNil:
			vm.stack.Push(value.Nil)

		case compiler.True:
			vm.stack.Push(value.Bool(true))

		case compiler.False:
			vm.stack.Push(value.Bool(false))

		case compiler.Pop:
			vm.stack.Pop()

		case compiler.GetLocal:
			vm.stack.Push(vm.stack.Get(ins.Operand))

		case compiler.SetLocal:
			v, _ := vm.stack.Peek(0)
			vm.stack.Set(ins.Operand, v)

		case compiler.GetGlobal:
			name := vm.globalName(ins.Operand)
			v, ok := vm.globals[name]
			if !ok {
				return vm.runtimeError(ins, "Undefined variable '%s'.", name)
			}
			vm.stack.Push(v)

		case compiler.DefineGlobal:
			name := vm.globalName(ins.Operand)
			v, _ := vm.stack.Pop()
			vm.globals[name] = v

		case compiler.SetGlobal:
			name := vm.globalName(ins.Operand)
			v, _ := vm.stack.Pop()
			if _, ok := vm.globals[name]; !ok {
				return vm.runtimeError(ins, "Undefined variable '%s'.", name)
			}
			vm.globals[name] = v

		case compiler.Equal:
			b, _ := vm.stack.Pop()
			a, _ := vm.stack.Pop()
			vm.stack.Push(value.Bool(vm.valuesEqual(a, b)))

		case compiler.Greater:
			if res := vm.binaryNumberOp(ins, func(a, b float64) value.Value { return value.Bool(a > b) }); res != Ok {
				return res
			}

		case compiler.Less:
			if res := vm.binaryNumberOp(ins, func(a, b float64) value.Value { return value.Bool(a < b) }); res != Ok {
				return res
			}

		case compiler.Add:
			if res := vm.add(ins); res != Ok {
				return res
			}

		case compiler.Subtract:
			if res := vm.binaryNumberOp(ins, func(a, b float64) value.Value { return value.Number(a - b) }); res != Ok {
				return res
			}

		case compiler.Multiply:
			if res := vm.binaryNumberOp(ins, func(a, b float64) value.Value { return value.Number(a * b) }); res != Ok {
				return res
			}

		case compiler.Divide:
			if res := vm.binaryNumberOp(ins, func(a, b float64) value.Value { return value.Number(a / b) }); res != Ok {
				return res
			}

		case compiler.Not:
			v, _ := vm.stack.Pop()
			switch v.Kind {
			case value.KindBool:
				vm.stack.Push(value.Bool(!v.Bool))
			case value.KindNil:
				vm.stack.Push(value.Bool(true))
			default:
				return vm.runtimeError(ins, "Operand must be a boolean.")
			}

		case compiler.Negate:
			v, _ := vm.stack.Pop()
			if !v.IsNumber() {
				return vm.runtimeError(ins, "Operand must be a number.")
			}
			vm.stack.Push(value.Number(-v.Number))

		case compiler.Print:
			v, _ := vm.stack.Pop()
			fmt.Fprintln(vm.out, vm.render(v))

		case compiler.JumpIfFalse:
			v, _ := vm.stack.Peek(0)
			if v.IsFalsey() {
				vm.ip += ins.Operand
				continue
			}

		case compiler.Jump:
			vm.ip += ins.Operand
			continue

		case compiler.Loop:
			vm.ip -= ins.Operand
			continue

		case compiler.Return:
			return Ok

		default:
			return vm.runtimeError(ins, "Unknown opcode.")
		}

		vm.ip++
	}
}

func (vm *VM) globalName(constIdx int) string {
	handle := vm.chunk.Constants[constIdx].Obj
	return vm.heap.String(handle)
}

func (vm *VM) binaryNumberOp(ins compiler.Instruction, op func(a, b float64) value.Value) InterpretResult {
	b, _ := vm.stack.Pop()
	a, _ := vm.stack.Pop()
	if !a.IsNumber() || !b.IsNumber() {
		return vm.runtimeError(ins, "Operands must be numbers.")
	}
	vm.stack.Push(op(a.Number, b.Number))
	return Ok
}

// add implements the four-way dispatch spec.md requires: number+number
// adds, string+string concatenates into a freshly allocated string (and
// frees both operand handles), and a number combined with a string is
// stringified and concatenated on the matching side.
func (vm *VM) add(ins compiler.Instruction) InterpretResult {
	b, _ := vm.stack.Pop()
	a, _ := vm.stack.Pop()

	switch {
	case a.IsNumber() && b.IsNumber():
		vm.stack.Push(value.Number(a.Number + b.Number))
		return Ok

	case vm.isString(a) && vm.isString(b):
		text := vm.heap.String(a.Obj) + vm.heap.String(b.Obj)
		vm.heap.Free(a.Obj)
		vm.heap.Free(b.Obj)
		vm.stack.Push(value.Obj(vm.heap.Allocate(text)))
		return Ok

	case a.IsNumber() && vm.isString(b):
		text := value.FormatNumber(a.Number) + vm.heap.String(b.Obj)
		vm.heap.Free(b.Obj)
		vm.stack.Push(value.Obj(vm.heap.Allocate(text)))
		return Ok

	case vm.isString(a) && b.IsNumber():
		text := vm.heap.String(a.Obj) + value.FormatNumber(b.Number)
		vm.heap.Free(a.Obj)
		vm.stack.Push(value.Obj(vm.heap.Allocate(text)))
		return Ok

	default:
		return vm.runtimeError(ins, "Operands must be two numbers or two strings or one of each.")
	}
}

func (vm *VM) isString(v value.Value) bool {
	if !v.IsObj() {
		return false
	}
	_, ok := vm.heap.Get(v.Obj)
	return ok
}

func (vm *VM) valuesEqual(a, b value.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.IsObj() {
		return vm.heap.String(a.Obj) == vm.heap.String(b.Obj)
	}
	return value.Equal(a, b)
}

func (vm *VM) render(v value.Value) string {
	if v.IsObj() {
		return vm.heap.String(v.Obj)
	}
	return v.String()
}

func (vm *VM) runtimeError(ins compiler.Instruction, format string, args ...any) InterpretResult {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(vm.out, (RuntimeError{Message: message, Op: ins.Op, Line: ins.Line}).Error())
	vm.stack.Reset()
	return RuntimeErrorResult
}

func (vm *VM) traceInstruction(ins compiler.Instruction) {
	fmt.Fprintf(os.Stderr, "          ")
	for _, v := range vm.stack {
		fmt.Fprintf(os.Stderr, "[ %s ]", vm.render(v))
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "%04d %s\n", vm.ip, ins.Op)
}
