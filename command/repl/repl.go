package repl

import (
	"github.com/spf13/cobra"

	"arlindohall.com/glox/command/helper"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Starts an interactive session. Globals persist from one line to the next",
		Args:  cobra.NoArgs,
		RunE:  RunCommand,
	}
}

// RunCommand reads lines from the command's input until EOF.
func RunCommand(cmd *cobra.Command, _ []string) error {
	env, err := helper.NewEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	err = env.NewInterpreter(cmd).Repl(cmd.InOrStdin(), cmd.OutOrStdout())

	env.Telemetry.Report(env.Logger)

	return err
}
