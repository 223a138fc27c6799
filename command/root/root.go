package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arlindohall.com/glox/command/flags"
	"arlindohall.com/glox/command/helper"
	"arlindohall.com/glox/command/repl"
	"arlindohall.com/glox/command/run"
	"arlindohall.com/glox/command/scan"
	"arlindohall.com/glox/command/version"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Use:           "glox",
			Short:         "glox is a bytecode interpreter for a small Lua-like language",
			Args:          cobra.NoArgs,
			RunE:          repl.RunCommand,
			SilenceErrors: true,
			SilenceUsage:  true,
		},
	}

	helper.RegisterJSONOutputFlag(rootCommand.baseCmd)
	helper.RegisterConfigFlags(rootCommand.baseCmd)
	helper.RegisterDebugFlags(rootCommand.baseCmd)

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		run.GetCommand(),
		repl.GetCommand(),
		flags.GetCommand(),
		scan.GetCommand(),
		version.GetCommand(),
	)
}

// Command exposes the cobra tree, mainly so tests can set args and writers.
func (rc *RootCommand) Command() *cobra.Command {
	return rc.baseCmd
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
