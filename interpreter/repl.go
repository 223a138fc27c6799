package interpreter

import (
	"bufio"
	"fmt"
	"io"

	"arlindohall.com/glox/compiler"
	"arlindohall.com/glox/value"
)

const prompt = "> "

// Repl reads one line at a time from input until EOF. Each line is a
// separate chunk; errors are reported and the loop keeps going.
func (in *Interpreter) Repl(input io.Reader, output io.Writer) error {
	lines := bufio.NewScanner(input)

	fmt.Fprint(output, prompt)

	for lines.Scan() {
		val, err := in.InterpretString(lines.Text(), compiler.ReplMode)

		switch {
		case err != nil:
			fmt.Fprintln(in.diag, err)
		case !value.IsNil(val):
			fmt.Fprintln(output, val)
		}

		fmt.Fprint(output, prompt)
	}

	fmt.Fprintln(output)

	return lines.Err()
}
