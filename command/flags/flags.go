package flags

import (
	"github.com/spf13/cobra"

	"arlindohall.com/glox/command"
	"arlindohall.com/glox/command/helper"
	"arlindohall.com/glox/debug"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "flags",
		Short: "Prints the resolved debug flags and the layers they were resolved from",
		Args:  cobra.NoArgs,
		Run:   runCommand,
	}
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	env, err := helper.NewEnvironment(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer env.Close()

	result := &FlagsResult{
		Flags: env.Flags.Map(),
	}

	for _, layer := range env.Layers {
		result.Layers = append(result.Layers, newLayerResult(layer))
	}

	outputter.SetCommandResult(result)
}

func newLayerResult(layer debug.Layer) LayerResult {
	result := LayerResult{
		Name:   layer.Name,
		Define: []string{},
		Undef:  []string{},
	}

	for _, f := range layer.Define {
		result.Define = append(result.Define, f.String())
	}

	for _, f := range layer.Undef {
		result.Undef = append(result.Undef, f.String())
	}

	return result
}
