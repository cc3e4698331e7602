// Package compiler implements a single-pass Pratt compiler: it drives a
// scanner token by token and emits bytecode directly into a Chunk. No AST
// is ever materialised.
package compiler

import (
	"strconv"
	"strings"

	"wisp/heap"
	"wisp/scanner"
	"wisp/token"
	"wisp/value"
)

// Precedence levels, ascending.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// local is a compile-time record for a variable declared in some lexical
// scope. Its index in Compiler.locals is the runtime stack slot the VM
// addresses via GetLocal/SetLocal. depth == -1 means "declared but not yet
// initialized" (its own initializer is still being compiled).
type local struct {
	name  string
	depth int
}

// Compiler tracks the locals stack and current lexical scope depth for one
// compilation.
type Compiler struct {
	locals     []local
	scopeDepth int
}

// parseFunc is a Pratt prefix or infix handler. canAssign is only consulted
// by the variable prefix rule.
type parseFunc func(p *Parser, canAssign bool)

type parseRule struct {
	prefix     parseFunc
	infix      parseFunc
	precedence Precedence
}

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LeftParen:    {prefix: (*Parser).grouping},
		token.Minus:        {prefix: (*Parser).unary, infix: (*Parser).binary, precedence: PrecTerm},
		token.Plus:         {infix: (*Parser).binary, precedence: PrecTerm},
		token.Slash:        {infix: (*Parser).binary, precedence: PrecFactor},
		token.Star:         {infix: (*Parser).binary, precedence: PrecFactor},
		token.Bang:         {prefix: (*Parser).unary},
		token.BangEqual:    {infix: (*Parser).binary, precedence: PrecEquality},
		token.EqualEqual:   {infix: (*Parser).binary, precedence: PrecEquality},
		token.Greater:      {infix: (*Parser).binary, precedence: PrecComparison},
		token.GreaterEqual: {infix: (*Parser).binary, precedence: PrecComparison},
		token.Less:         {infix: (*Parser).binary, precedence: PrecComparison},
		token.LessEqual:    {infix: (*Parser).binary, precedence: PrecComparison},
		token.Identifier:   {prefix: (*Parser).variable},
		token.String:       {prefix: (*Parser).stringLiteral},
		token.Number:       {prefix: (*Parser).number},
		token.False:        {prefix: (*Parser).literal},
		token.True:         {prefix: (*Parser).literal},
		token.Nil:          {prefix: (*Parser).literal},
	}
}

func getRule(kind token.Kind) parseRule {
	return rules[kind]
}

// Parser drives the scanner and emits into a Chunk. It owns everything a
// single compile call needs: current/previous tokens, error-recovery
// state, the Heap (lent by the VM for the duration of the call), and the
// Compiler scope tracker.
type Parser struct {
	scanner *scanner.Scanner
	source  string

	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool
	errors    []error

	heap  *heap.Heap
	chunk *Chunk
	comp  *Compiler
}

// Compile compiles source into a Chunk, interning string data into heap.
// It returns every CompileError collected across the whole source (not
// just the first) and ok == true iff none were recorded.
func Compile(source string, h *heap.Heap) (chunk *Chunk, ok bool, errs []error) {
	p := &Parser{
		scanner: scanner.New(source),
		source:  source,
		heap:    h,
		chunk:   NewChunk(),
		comp:    &Compiler{},
	}

	p.advance()
	for !p.match(token.EOF) {
		p.declaration()
	}

	return p.chunk, !p.hadError, p.errors
}

// --- token stream -----------------------------------------------------

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.scanner.ScanToken()
		if p.current.Kind != token.Error {
			break
		}
		p.errorAtCurrent(p.scanner.ErrorMessage())
	}
}

func (p *Parser) check(kind token.Kind) bool {
	return p.current.Kind == kind
}

func (p *Parser) match(kind token.Kind) bool {
	if !p.check(kind) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(kind token.Kind, message string) {
	if p.current.Kind == kind {
		p.advance()
		return
	}
	p.errorAtCurrent(message)
}

// --- error reporting ----------------------------------------------------

func (p *Parser) errorAtCurrent(message string) {
	p.errorAt(p.current, message)
}

func (p *Parser) error(message string) {
	p.errorAt(p.previous, message)
}

func (p *Parser) errorAt(tok token.Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	where := "at '" + tok.Lexeme(p.source) + "'"
	if tok.Kind == token.EOF {
		where = "at end"
	} else if tok.Kind == token.Error {
		where = ""
	}

	p.errors = append(p.errors, CompileError{Line: tok.Line, Where: where, Message: message})
}

func (p *Parser) synchronize() {
	p.panicMode = false

	for p.current.Kind != token.EOF {
		if p.previous.Kind == token.Semicolon {
			return
		}
		switch p.current.Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

// --- declarations and statements ---------------------------------------

func (p *Parser) declaration() {
	if p.match(token.Var) {
		p.varDeclaration()
	} else {
		p.statement()
	}

	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) varDeclaration() {
	global := p.parseVariable("Expect variable name.")

	if p.match(token.Equal) {
		p.expression()
	} else {
		p.emit(OpNil)
	}
	p.consume(token.Semicolon, "Expect ';' after variable declaration.")

	p.defineVariable(global)
}

func (p *Parser) statement() {
	switch {
	case p.match(token.Print):
		p.printStatement()
	case p.match(token.LeftBrace):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(token.Semicolon, "Expect ';' after value.")
	p.emit(Print)
}

// expressionStatement intentionally does not emit Pop after the
// expression; the VM is never handed a statement stream that balances its
// own stack effects outside of the declared variable mechanics.
func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression.")
}

func (p *Parser) block() {
	for !p.check(token.RightBrace) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
}

func (p *Parser) beginScope() {
	p.comp.scopeDepth++
}

func (p *Parser) endScope() {
	p.comp.scopeDepth--

	for len(p.comp.locals) > 0 && p.comp.locals[len(p.comp.locals)-1].depth > p.comp.scopeDepth {
		p.emit(Pop)
		p.comp.locals = p.comp.locals[:len(p.comp.locals)-1]
	}
}

// --- expressions ---------------------------------------------------------

func (p *Parser) expression() {
	p.parsePrecedence(PrecAssignment)
}

func (p *Parser) parsePrecedence(prec Precedence) {
	p.advance()
	prefix := getRule(p.previous.Kind).prefix
	if prefix == nil {
		p.error("Expect expression.")
		return
	}

	canAssign := prec <= PrecAssignment
	prefix(p, canAssign)

	for prec <= getRule(p.current.Kind).precedence {
		p.advance()
		infix := getRule(p.previous.Kind).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(token.Equal) {
		p.error("Invalid assignment target.")
	}
}

func (p *Parser) grouping(_ bool) {
	p.expression()
	p.consume(token.RightParen, "Expect ')' after expression.")
}

func (p *Parser) unary(_ bool) {
	operator := p.previous.Kind
	p.parsePrecedence(PrecUnary)

	switch operator {
	case token.Bang:
		p.emit(Not)
	case token.Minus:
		p.emit(Negate)
	}
}

func (p *Parser) binary(_ bool) {
	operator := p.previous.Kind
	rule := getRule(operator)
	p.parsePrecedence(rule.precedence + 1)

	switch operator {
	case token.BangEqual:
		p.emit(Equal)
		p.emit(Not)
	case token.EqualEqual:
		p.emit(Equal)
	case token.Greater:
		p.emit(Greater)
	case token.GreaterEqual:
		p.emit(Less)
		p.emit(Not)
	case token.Less:
		p.emit(Less)
	case token.LessEqual:
		p.emit(Greater)
		p.emit(Not)
	case token.Plus:
		p.emit(Add)
	case token.Minus:
		p.emit(Subtract)
	case token.Star:
		p.emit(Multiply)
	case token.Slash:
		p.emit(Divide)
	}
}

func (p *Parser) number(_ bool) {
	lexeme := p.previous.Lexeme(p.source)
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		p.error("Invalid number literal.")
		return
	}
	p.emitConstant(value.Number(n))
}

func (p *Parser) stringLiteral(_ bool) {
	lexeme := p.previous.Lexeme(p.source)
	text := strings.TrimSuffix(strings.TrimPrefix(lexeme, `"`), `"`)
	handle := p.heap.Allocate(text)
	p.emitConstant(value.Obj(handle))
}

func (p *Parser) literal(_ bool) {
	switch p.previous.Kind {
	case token.False:
		p.emit(False)
	case token.True:
		p.emit(True)
	case token.Nil:
		p.emit(OpNil)
	}
}

func (p *Parser) variable(canAssign bool) {
	p.namedVariable(p.previous, canAssign)
}

// --- variable mechanics --------------------------------------------------

// parseVariable consumes an identifier and, at global scope, interns it as
// a constant-pool string, returning its index. Inside a local scope it
// declares the local instead and the returned index is unused by
// defineVariable.
func (p *Parser) parseVariable(errorMessage string) int {
	p.consume(token.Identifier, errorMessage)

	p.declareVariable()
	if p.comp.scopeDepth > 0 {
		return 0
	}

	return p.identifierConstant(p.previous)
}

func (p *Parser) identifierConstant(name token.Token) int {
	handle := p.heap.Allocate(name.Lexeme(p.source))
	idx, err := p.chunk.AddConstant(value.Obj(handle))
	if err != nil {
		p.error(err.Error())
		return 0
	}
	return idx
}

func (p *Parser) declareVariable() {
	if p.comp.scopeDepth == 0 {
		return
	}

	name := p.previous.Lexeme(p.source)
	for i := len(p.comp.locals) - 1; i >= 0; i-- {
		l := p.comp.locals[i]
		if l.depth != -1 && l.depth < p.comp.scopeDepth {
			break
		}
		if l.name == name {
			p.error("Variable with this name already declared in this scope.")
		}
	}

	p.addLocal(name)
}

func (p *Parser) addLocal(name string) {
	p.comp.locals = append(p.comp.locals, local{name: name, depth: -1})
}

func (p *Parser) defineVariable(global int) {
	if p.comp.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOperand(DefineGlobal, global)
}

func (p *Parser) markInitialized() {
	p.comp.locals[len(p.comp.locals)-1].depth = p.comp.scopeDepth
}

func (p *Parser) namedVariable(name token.Token, canAssign bool) {
	slot, ok := p.resolveLocal(name)

	if ok {
		if canAssign && p.match(token.Equal) {
			p.expression()
			p.emitOperand(SetLocal, slot)
		} else {
			p.emitOperand(GetLocal, slot)
		}
		return
	}

	idx := p.identifierConstant(name)
	if canAssign && p.match(token.Equal) {
		p.expression()
		p.emitOperand(SetGlobal, idx)
	} else {
		p.emitOperand(GetGlobal, idx)
	}
}

func (p *Parser) resolveLocal(name token.Token) (int, bool) {
	lexeme := name.Lexeme(p.source)
	for i := len(p.comp.locals) - 1; i >= 0; i-- {
		l := p.comp.locals[i]
		if l.name != lexeme {
			continue
		}
		if l.depth == -1 {
			p.error("Cannot read local variable in its own initializer.")
		}
		return i, true
	}
	return 0, false
}

// --- emission ------------------------------------------------------------

func (p *Parser) emit(op Op) {
	p.chunk.Write(op, p.previous.Line)
}

func (p *Parser) emitOperand(op Op, operand int) {
	p.chunk.WriteOperand(op, operand, p.previous.Line)
}

func (p *Parser) emitConstant(v value.Value) {
	idx, err := p.chunk.AddConstant(v)
	if err != nil {
		p.error(err.Error())
		return
	}
	p.emitOperand(Constant, idx)
}
