package run

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arlindohall.com/glox/command/helper"
	"arlindohall.com/glox/compiler"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [file]",
		Short: "Compiles and runs a source file. GC and VM counters are logged at DEBUG",
		Args:  cobra.ExactArgs(1),
		RunE:  runCommand,
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	env, err := helper.NewEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("could not open source: %w", err)
	}
	defer file.Close()

	env.Logger.Debug("running", "file", args[0], "debug", env.Flags.String())

	in := env.NewInterpreter(cmd)

	_, err = in.Interpret(bufio.NewReader(file), compiler.RunFileMode)

	env.Telemetry.Report(env.Logger)

	return err
}
