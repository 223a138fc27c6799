package interpreter

import (
	"fmt"
	"io"

	"arlindohall.com/glox/compiler"
)

func traceFunction(w io.Writer, name string) {
	if name == "" {
		fmt.Fprintln(w, "========== <script> ==========")
	} else {
		fmt.Fprintf(w, "========== %s ==========\n", name)
	}
}

// trace writes the operand stack, then the instruction about to run.
func (vm *VM) trace() {
	fmt.Fprint(vm.diag, "     |")

	for _, v := range vm.stack {
		fmt.Fprintf(vm.diag, " [ %v ]", v)
	}

	fmt.Fprintln(vm.diag)

	compiler.DisassembleInstruction(vm.diag, vm.chunk, vm.ip)
}
