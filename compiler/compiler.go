package compiler

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"arlindohall.com/glox/debug"
	"arlindohall.com/glox/glerror"
	"arlindohall.com/glox/memory"
	"arlindohall.com/glox/scanner"
	"arlindohall.com/glox/value"
)

type Mode int

const (
	RunFileMode Mode = iota
	// ReplMode returns the value of a trailing expression statement
	// instead of discarding it.
	ReplMode
)

const (
	maxConstants = math.MaxUint8 + 1
	maxLocals    = math.MaxUint8 + 1
	maxJump      = math.MaxUint16
)

type Local struct {
	name  string
	scope int
}

type Compiler struct {
	heap  *memory.Heap
	flags debug.Flags
	out   io.Writer
}

// New returns a compiler that allocates string constants on heap and,
// when flags has DEBUG_PRINT_CODE, disassembles its output to out.
func New(heap *memory.Heap, flags debug.Flags, out io.Writer) *Compiler {
	return &Compiler{
		heap:  heap,
		flags: flags,
		out:   out,
	}
}

type compiler struct {
	*Compiler

	text      []scanner.Token
	curr      int
	chunk     *Chunk
	locals    []Local
	scope     int
	mode      Mode
	lastPop   int
	panicMode bool
	err       glerror.Chain
}

func (c *Compiler) Compile(text []scanner.Token, mode Mode) (*Function, error) {
	compiler := &compiler{
		Compiler: c,
		text:     text,
		chunk:    &Chunk{},
		mode:     mode,
		lastPop:  -1,
	}

	remove := c.heap.AddRoots(func(mark func(value.Value)) {
		for _, constant := range compiler.chunk.Constants {
			mark(constant)
		}
	})
	defer remove()

	for !compiler.check(scanner.TokenEof) {
		compiler.declaration()
	}

	return compiler.end()
}

func (compiler *compiler) end() (*Function, error) {
	compiler.emitReturn()

	if err := compiler.err.ErrorOrNil(); err != nil {
		return nil, err
	}

	function := &Function{Chunk: compiler.chunk}

	if compiler.flags.PrintCode() {
		Disassemble(compiler.out, function)
	}

	return function, nil
}

func (compiler *compiler) emitReturn() {
	last := len(compiler.chunk.Code) - 1
	if compiler.mode == ReplMode && last >= 0 && last == compiler.lastPop {
		compiler.chunk.Code[last] = OpReturn
		return
	}

	compiler.emitBytes(OpNil, OpReturn)
}

// Declarations and statements

func (compiler *compiler) declaration() {
	switch compiler.current().Type {
	case scanner.TokenLocal:
		compiler.localDeclaration()
	case scanner.TokenGlobal:
		compiler.globalDeclaration()
	default:
		compiler.statement()
	}

	// Lua allows semicolons but they are not required
	compiler.match(scanner.TokenSemicolon)

	if compiler.panicMode {
		compiler.synchronize()
	}
}

func (compiler *compiler) localDeclaration() {
	compiler.consume(scanner.TokenLocal, "'local'")
	name := compiler.identifier()

	if compiler.match(scanner.TokenEqual) {
		compiler.expression()
	} else {
		compiler.emitByte(OpNil)
	}

	compiler.addLocal(name)
}

func (compiler *compiler) globalDeclaration() {
	compiler.consume(scanner.TokenGlobal, "'global'")
	name := compiler.identifier()

	if compiler.match(scanner.TokenEqual) {
		compiler.expression()
	} else {
		compiler.emitByte(OpNil)
	}

	compiler.emitBytes(OpSetGlobal, compiler.stringConstant(name))
	compiler.emitByte(OpPop)
}

func (compiler *compiler) addLocal(name string) {
	for i := len(compiler.locals) - 1; i >= 0; i-- {
		local := compiler.locals[i]
		if local.scope < compiler.scope {
			break
		}

		if local.name == name {
			compiler.error(fmt.Sprintf("Already a local named '%s' in this scope", name))
			return
		}
	}

	if len(compiler.locals) == maxLocals {
		compiler.error("Too many local variables")
		return
	}

	compiler.locals = append(compiler.locals, Local{name, compiler.scope})
}

func (compiler *compiler) statement() {
	switch compiler.current().Type {
	case scanner.TokenPrint:
		compiler.advance()
		compiler.expression()
		compiler.emitByte(OpPrint)
	case scanner.TokenAssert:
		compiler.advance()
		compiler.expression()
		compiler.emitByte(OpAssert)
	case scanner.TokenIf:
		compiler.ifStatement()
	case scanner.TokenWhile:
		compiler.whileStatement()
	case scanner.TokenDo:
		compiler.advance()
		compiler.block()
		compiler.consume(scanner.TokenEnd, "'end' after block")
	default:
		compiler.expression()
		compiler.lastPop = len(compiler.chunk.Code)
		compiler.emitByte(OpPop)
	}
}

// block compiles declarations in a new scope up to, but not including,
// 'end' or 'else'.
func (compiler *compiler) block() {
	compiler.startScope()

	for !compiler.check(scanner.TokenEnd) && !compiler.check(scanner.TokenElse) && !compiler.check(scanner.TokenEof) {
		compiler.declaration()
	}

	compiler.endScope()
}

func (compiler *compiler) ifStatement() {
	compiler.consume(scanner.TokenIf, "'if'")
	compiler.expression()
	compiler.consume(scanner.TokenThen, "'then' after condition")

	thenJump := compiler.emitJump(OpJumpIfFalse)
	compiler.emitByte(OpPop)
	compiler.block()

	elseJump := compiler.emitJump(OpJump)
	compiler.patchJump(thenJump)
	compiler.emitByte(OpPop)

	if compiler.match(scanner.TokenElse) {
		compiler.block()
	}

	compiler.consume(scanner.TokenEnd, "'end' after if")
	compiler.patchJump(elseJump)
}

func (compiler *compiler) whileStatement() {
	loopStart := len(compiler.chunk.Code)

	compiler.consume(scanner.TokenWhile, "'while'")
	compiler.expression()
	compiler.consume(scanner.TokenDo, "'do' after condition")

	exitJump := compiler.emitJump(OpJumpIfFalse)
	compiler.emitByte(OpPop)
	compiler.block()
	compiler.consume(scanner.TokenEnd, "'end' after loop body")
	compiler.emitLoop(loopStart)

	compiler.patchJump(exitJump)
	compiler.emitByte(OpPop)
}

func (compiler *compiler) startScope() {
	compiler.scope++
}

func (compiler *compiler) endScope() {
	compiler.scope--

	for len(compiler.locals) > 0 && compiler.locals[len(compiler.locals)-1].scope > compiler.scope {
		compiler.emitByte(OpPop)
		compiler.locals = compiler.locals[:len(compiler.locals)-1]
	}
}

// Expressions, lowest precedence first. canAssign is only true for the
// leftmost operand of an expression, so `a + b = c` is rejected.

func (compiler *compiler) expression() {
	compiler.logicOr(true)

	if compiler.match(scanner.TokenEqual) {
		compiler.error("Invalid assignment target")
		compiler.expression()
	}
}

func (compiler *compiler) logicOr(canAssign bool) {
	compiler.logicAnd(canAssign)

	for compiler.match(scanner.TokenOr) {
		elseJump := compiler.emitJump(OpJumpIfFalse)
		endJump := compiler.emitJump(OpJump)

		compiler.patchJump(elseJump)
		compiler.emitByte(OpPop)

		compiler.logicAnd(false)
		compiler.patchJump(endJump)
	}
}

func (compiler *compiler) logicAnd(canAssign bool) {
	compiler.comparison(canAssign)

	for compiler.match(scanner.TokenAnd) {
		endJump := compiler.emitJump(OpJumpIfFalse)
		compiler.emitByte(OpPop)

		compiler.comparison(false)
		compiler.patchJump(endJump)
	}
}

func (compiler *compiler) comparison(canAssign bool) {
	compiler.concat(canAssign)

	for {
		switch compiler.current().Type {
		case scanner.TokenEqualEqual:
			compiler.advance()
			compiler.concat(false)
			compiler.emitByte(OpEqual)
		case scanner.TokenTildeEqual, scanner.TokenBangEqual:
			compiler.advance()
			compiler.concat(false)
			compiler.emitBytes(OpEqual, OpNot)
		case scanner.TokenLess:
			compiler.advance()
			compiler.concat(false)
			compiler.emitByte(OpLess)
		case scanner.TokenLessEqual:
			compiler.advance()
			compiler.concat(false)
			compiler.emitBytes(OpGreater, OpNot)
		case scanner.TokenGreater:
			compiler.advance()
			compiler.concat(false)
			compiler.emitByte(OpGreater)
		case scanner.TokenGreaterEqual:
			compiler.advance()
			compiler.concat(false)
			compiler.emitBytes(OpLess, OpNot)
		default:
			return
		}
	}
}

// concat is right associative, as in Lua.
func (compiler *compiler) concat(canAssign bool) {
	compiler.term(canAssign)

	if compiler.match(scanner.TokenDotDot) {
		compiler.concat(false)
		compiler.emitByte(OpConcat)
	}
}

func (compiler *compiler) term(canAssign bool) {
	compiler.factor(canAssign)

	for {
		switch compiler.current().Type {
		case scanner.TokenPlus:
			compiler.advance()
			compiler.factor(false)
			compiler.emitByte(OpAdd)
		case scanner.TokenMinus:
			compiler.advance()
			compiler.factor(false)
			compiler.emitByte(OpSubtract)
		default:
			return
		}
	}
}

func (compiler *compiler) factor(canAssign bool) {
	compiler.unary(canAssign)

	for {
		switch compiler.current().Type {
		case scanner.TokenStar:
			compiler.advance()
			compiler.unary(false)
			compiler.emitByte(OpMult)
		case scanner.TokenSlash:
			compiler.advance()
			compiler.unary(false)
			compiler.emitByte(OpDivide)
		default:
			return
		}
	}
}

func (compiler *compiler) unary(canAssign bool) {
	switch compiler.current().Type {
	case scanner.TokenMinus:
		compiler.advance()
		compiler.unary(false)
		compiler.emitByte(OpNegate)
	case scanner.TokenBang, scanner.TokenNot:
		compiler.advance()
		compiler.unary(false)
		compiler.emitByte(OpNot)
	default:
		compiler.call(canAssign)
	}
}

// call handles table access chains such as `t.a["b"]`. Only the last
// accessor of a chain may be assigned to.
func (compiler *compiler) call(canAssign bool) {
	compiler.primary(canAssign)

	for compiler.check(scanner.TokenDot) || compiler.check(scanner.TokenLeftBracket) {
		if compiler.match(scanner.TokenDot) {
			compiler.emitBytes(OpConstant, compiler.stringConstant(compiler.identifier()))
		} else {
			compiler.advance()
			compiler.expression()
			compiler.consume(scanner.TokenRightBracket, "']' after key")
		}

		if canAssign && compiler.match(scanner.TokenEqual) {
			compiler.expression()
			compiler.emitByte(OpSetTable)
			return
		}

		compiler.emitByte(OpGetTable)
	}
}

func (compiler *compiler) primary(canAssign bool) {
	token := compiler.current()

	switch token.Type {
	case scanner.TokenTrue:
		compiler.advance()
		compiler.emitByte(OpTrue)
	case scanner.TokenFalse:
		compiler.advance()
		compiler.emitByte(OpFalse)
	case scanner.TokenNil:
		compiler.advance()
		compiler.emitByte(OpNil)
	case scanner.TokenNumber:
		compiler.advance()

		flt, err := strconv.ParseFloat(token.Text, 64)
		if err != nil {
			compiler.error(fmt.Sprint("Cannot parse number: ", token.Text))
			return
		}

		compiler.emitBytes(OpConstant, compiler.makeConstant(value.Number(flt)))
	case scanner.TokenString:
		compiler.advance()
		compiler.emitBytes(OpConstant, compiler.stringConstant(token.Text))
	case scanner.TokenIdentifier:
		compiler.advance()
		compiler.variable(token.Text, canAssign)
	case scanner.TokenLeftBrace:
		compiler.tableLiteral()
	case scanner.TokenLeftParen:
		compiler.advance()
		compiler.expression()
		compiler.consume(scanner.TokenRightParen, "')' after expression")
	default:
		compiler.error(fmt.Sprintf("Expected expression, found %v", token))
		compiler.advance()
	}
}

func (compiler *compiler) variable(name string, canAssign bool) {
	getOp, setOp := OpGetGlobal, OpSetGlobal

	var arg byte
	if slot := compiler.resolveLocal(name); slot >= 0 {
		getOp, setOp = OpGetLocal, OpSetLocal
		arg = byte(slot)
	} else {
		arg = compiler.stringConstant(name)
	}

	if canAssign && compiler.match(scanner.TokenEqual) {
		compiler.expression()
		compiler.emitBytes(setOp, arg)
		return
	}

	compiler.emitBytes(getOp, arg)
}

func (compiler *compiler) resolveLocal(name string) int {
	for i := len(compiler.locals) - 1; i >= 0; i-- {
		if compiler.locals[i].name == name {
			return i
		}
	}

	return -1
}

func (compiler *compiler) tableLiteral() {
	compiler.consume(scanner.TokenLeftBrace, "'{'")
	compiler.emitByte(OpCreateTable)

	for !compiler.check(scanner.TokenRightBrace) && !compiler.check(scanner.TokenEof) {
		switch {
		case compiler.match(scanner.TokenLeftBracket):
			compiler.expression()
			compiler.consume(scanner.TokenRightBracket, "']' after key")
			compiler.consume(scanner.TokenEqual, "'=' after key")
			compiler.expression()
			compiler.emitByte(OpInitTable)
		case compiler.check(scanner.TokenIdentifier) && compiler.peek().Type == scanner.TokenEqual:
			compiler.emitBytes(OpConstant, compiler.stringConstant(compiler.identifier()))
			compiler.advance()
			compiler.expression()
			compiler.emitByte(OpInitTable)
		default:
			compiler.expression()
			compiler.emitByte(OpInsertTable)
		}

		if !compiler.match(scanner.TokenComma) && !compiler.match(scanner.TokenSemicolon) {
			break
		}
	}

	compiler.consume(scanner.TokenRightBrace, "'}' after table fields")
}

// Token handling

func (compiler *compiler) current() scanner.Token {
	if compiler.curr >= len(compiler.text) {
		return scanner.Token{Type: scanner.TokenEof, Line: compiler.previous().Line}
	}

	return compiler.text[compiler.curr]
}

func (compiler *compiler) peek() scanner.Token {
	if compiler.curr+1 >= len(compiler.text) {
		return scanner.Token{Type: scanner.TokenEof}
	}

	return compiler.text[compiler.curr+1]
}

func (compiler *compiler) previous() scanner.Token {
	if compiler.curr == 0 || len(compiler.text) == 0 {
		return scanner.Token{Line: 1}
	}

	if compiler.curr > len(compiler.text) {
		return compiler.text[len(compiler.text)-1]
	}

	return compiler.text[compiler.curr-1]
}

func (compiler *compiler) check(tt scanner.TokenType) bool {
	return compiler.current().Type == tt
}

func (compiler *compiler) advance() {
	if compiler.curr < len(compiler.text) {
		compiler.curr++
	}
}

func (compiler *compiler) match(tt scanner.TokenType) bool {
	if !compiler.check(tt) {
		return false
	}

	compiler.advance()

	return true
}

func (compiler *compiler) consume(tt scanner.TokenType, expected string) {
	if compiler.check(tt) {
		compiler.advance()
		return
	}

	compiler.error(fmt.Sprintf("Expected %s, found %v", expected, compiler.current()))
}

func (compiler *compiler) identifier() string {
	name := compiler.current().Text
	compiler.consume(scanner.TokenIdentifier, "identifier")

	return name
}

// synchronize skips to the start of the next statement after an error so
// one mistake is reported once.
func (compiler *compiler) synchronize() {
	compiler.panicMode = false

	for !compiler.check(scanner.TokenEof) {
		if compiler.previous().Type == scanner.TokenSemicolon {
			return
		}

		switch compiler.current().Type {
		case scanner.TokenLocal, scanner.TokenGlobal, scanner.TokenPrint, scanner.TokenAssert,
			scanner.TokenIf, scanner.TokenWhile, scanner.TokenDo:
			return
		}

		compiler.advance()
	}
}

// Emitting bytecode

func (compiler *compiler) emitByte(b byte) {
	compiler.chunk.write(b, compiler.previous().Line)
}

func (compiler *compiler) emitBytes(b1, b2 byte) {
	compiler.emitByte(b1)
	compiler.emitByte(b2)
}

func (compiler *compiler) emitJump(op byte) int {
	compiler.emitByte(op)
	compiler.emitBytes(0xff, 0xff)

	return len(compiler.chunk.Code) - 2
}

func (compiler *compiler) patchJump(offset int) {
	jump := len(compiler.chunk.Code) - offset - 2
	if jump > maxJump {
		compiler.error("Too much code to jump over")
	}

	compiler.chunk.Code[offset], compiler.chunk.Code[offset+1] = SplitBytes(jump)
}

func (compiler *compiler) emitLoop(loopStart int) {
	compiler.emitByte(OpLoop)

	offset := len(compiler.chunk.Code) - loopStart + 2
	if offset > maxJump {
		compiler.error("Loop body too large")
	}

	compiler.emitBytes(SplitBytes(offset))
}

func (compiler *compiler) stringConstant(chars string) byte {
	for i, c := range compiler.chunk.Constants {
		if s, ok := c.(*value.String); ok && s.Chars == chars {
			return byte(i)
		}
	}

	return compiler.makeConstant(compiler.heap.NewString(chars))
}

func (compiler *compiler) makeConstant(val value.Value) byte {
	for i, c := range compiler.chunk.Constants {
		if value.Equal(c, val) {
			return byte(i)
		}
	}

	if len(compiler.chunk.Constants) == maxConstants {
		compiler.error("Too many constants in one chunk")
		return 0
	}

	compiler.chunk.Constants = append(compiler.chunk.Constants, val)

	return byte(len(compiler.chunk.Constants) - 1)
}

func (compiler *compiler) error(message string) {
	if compiler.panicMode {
		return
	}

	compiler.panicMode = true
	compiler.err.Append(glerror.CompileError{
		Message: message,
		Line:    compiler.current().Line,
	})
}
