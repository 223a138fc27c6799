package compiler

import "arlindohall.com/glox/value"

const (
	OpConstant byte = iota
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpSetGlobal
	OpCreateTable
	OpInitTable
	OpInsertTable
	OpGetTable
	OpSetTable
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMult
	OpDivide
	OpConcat
	OpNot
	OpNegate
	OpPrint
	OpAssert
	OpJump
	OpJumpIfFalse
	OpLoop
	OpReturn
)

// Chunk is a compiled instruction sequence. Lines has one entry per byte
// of Code.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []value.Value
}

func (chunk *Chunk) write(b byte, line int) {
	chunk.Code = append(chunk.Code, b)
	chunk.Lines = append(chunk.Lines, line)
}

type Function struct {
	Chunk *Chunk
	Name  string
}

func MergeBytes(upper, lower byte) int {
	return int(upper)<<8 | int(lower)
}

func SplitBytes(num int) (upper, lower byte) {
	upper = byte((num >> 8) & 0xff)
	lower = byte(num & 0xff)
	return
}
