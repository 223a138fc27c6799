package compiler

import (
	"fmt"
	"io"
)

var opNames = [...]string{
	OpConstant:    "OpConstant",
	OpNil:         "OpNil",
	OpTrue:        "OpTrue",
	OpFalse:       "OpFalse",
	OpPop:         "OpPop",
	OpGetLocal:    "OpGetLocal",
	OpSetLocal:    "OpSetLocal",
	OpGetGlobal:   "OpGetGlobal",
	OpSetGlobal:   "OpSetGlobal",
	OpCreateTable: "OpCreateTable",
	OpInitTable:   "OpInitTable",
	OpInsertTable: "OpInsertTable",
	OpGetTable:    "OpGetTable",
	OpSetTable:    "OpSetTable",
	OpEqual:       "OpEqual",
	OpGreater:     "OpGreater",
	OpLess:        "OpLess",
	OpAdd:         "OpAdd",
	OpSubtract:    "OpSubtract",
	OpMult:        "OpMult",
	OpDivide:      "OpDivide",
	OpConcat:      "OpConcat",
	OpNot:         "OpNot",
	OpNegate:      "OpNegate",
	OpPrint:       "OpPrint",
	OpAssert:      "OpAssert",
	OpJump:        "OpJump",
	OpJumpIfFalse: "OpJumpIfFalse",
	OpLoop:        "OpLoop",
	OpReturn:      "OpReturn",
}

func ByteName(op byte) string {
	if int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", op)
	}

	return opNames[op]
}

// Disassemble writes every instruction of function's chunk to w.
func Disassemble(w io.Writer, function *Function) {
	if function.Name == "" {
		fmt.Fprintln(w, "---------- <script> ----------")
	} else {
		fmt.Fprintln(w, "----------", function.Name, "----------")
	}

	for offset := 0; offset < len(function.Chunk.Code); {
		offset = DisassembleInstruction(w, function.Chunk, offset)
	}

	fmt.Fprintln(w)
}

// DisassembleInstruction writes the instruction at offset and returns the
// offset of the next one.
func DisassembleInstruction(w io.Writer, chunk *Chunk, offset int) int {
	switch op := chunk.Code[offset]; op {
	case OpConstant, OpGetGlobal, OpSetGlobal:
		return printConstant(w, chunk, offset)
	case OpGetLocal, OpSetLocal:
		return printByte(w, chunk, offset)
	case OpJump, OpJumpIfFalse:
		return printJump(w, chunk, offset, 1)
	case OpLoop:
		return printJump(w, chunk, offset, -1)
	default:
		return printInstruction(w, chunk, offset)
	}
}

func printInstruction(w io.Writer, chunk *Chunk, i int) int {
	fmt.Fprintf(w, "%04d | %-16s\n", i, ByteName(chunk.Code[i]))
	return i + 1
}

func printByte(w io.Writer, chunk *Chunk, i int) int {
	fmt.Fprintf(w, "%04d | %-16s %-4d\n", i, ByteName(chunk.Code[i]), chunk.Code[i+1])
	return i + 2
}

func printConstant(w io.Writer, chunk *Chunk, i int) int {
	index := chunk.Code[i+1]
	fmt.Fprintf(w, "%04d | %-16s %-4d '%v'\n", i, ByteName(chunk.Code[i]), index, chunk.Constants[index])
	return i + 2
}

func printJump(w io.Writer, chunk *Chunk, i int, sign int) int {
	jump := MergeBytes(chunk.Code[i+1], chunk.Code[i+2])
	start := i + 3
	fmt.Fprintf(w, "%04d | %-16s %-4d (%d -> %d)\n", i, ByteName(chunk.Code[i]), jump, start, start+sign*jump)
	return i + 3
}
