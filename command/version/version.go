package version

import (
	"strings"

	"github.com/spf13/cobra"

	"arlindohall.com/glox/command"
	"arlindohall.com/glox/debug"
)

// Version is set at build time with -ldflags "-X ...".
var Version = "0.1.0"

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Returns the current glox version and build profile",
		Args:  cobra.NoArgs,
		Run:   runCommand,
	}
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	outputter.SetCommandResult(
		&VersionResult{
			Version: Version,
			Profile: profile(),
		},
	)
}

// profile names the layers compiled into the binary, in order.
func profile() string {
	layers := debug.BuildLayers()

	names := make([]string, len(layers))
	for i, layer := range layers {
		names[i] = layer.Name
	}

	return strings.Join(names, " -> ")
}
