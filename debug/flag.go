// Package debug holds the diagnostic switches consulted by the compiler,
// the virtual machine and the memory manager.
//
// A Flags value is resolved once, before any source is compiled, and is
// then handed to every component that wants to branch on it. Nothing in
// this package writes output or keeps global mutable state.
package debug

import (
	"errors"
	"fmt"
	"strings"
)

type Flag uint8

const (
	// PrintCode makes the compiler disassemble every chunk it finishes.
	PrintCode Flag = iota

	// TraceExecution makes the VM print the operand stack and the
	// instruction about to run, for every instruction.
	TraceExecution

	// StressGC makes the memory manager collect before every allocation.
	StressGC

	// LogGC makes the memory manager print allocation and collection events.
	LogGC

	flagCount
)

var ErrUnknownFlag = errors.New("unknown debug flag")

var flagNames = [flagCount]string{
	PrintCode:      "DEBUG_PRINT_CODE",
	TraceExecution: "DEBUG_TRACE_EXECUTION",
	StressGC:       "DEBUG_STRESS_GC",
	LogGC:          "DEBUG_LOG_GC",
}

// All returns every known flag in declaration order.
func All() []Flag {
	flags := make([]Flag, 0, flagCount)
	for f := Flag(0); f < flagCount; f++ {
		flags = append(flags, f)
	}

	return flags
}

func (f Flag) String() string {
	if !f.valid() {
		return fmt.Sprintf("Flag(%d)", uint8(f))
	}

	return flagNames[f]
}

func (f Flag) valid() bool {
	return f < flagCount
}

// ParseFlag maps a flag name to its Flag. Matching ignores case, accepts
// '-' in place of '_' and makes the DEBUG_ prefix optional, so
// "trace-execution" and "DEBUG_TRACE_EXECUTION" name the same flag.
func ParseFlag(name string) (Flag, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "-", "_")

	if !strings.HasPrefix(normalized, "DEBUG_") {
		normalized = "DEBUG_" + normalized
	}

	for f, flagName := range flagNames {
		if flagName == normalized {
			return Flag(f), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
}
