package helper

import (
	"strings"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"arlindohall.com/glox/command"
	"arlindohall.com/glox/debug"
)

// FormatKV formats "key|value" rows as aligned "key = value" lines
func FormatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "

	return columnize.Format(in, columnConf)
}

// RegisterJSONOutputFlag registers the --json output setting for all child commands
func RegisterJSONOutputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(
		command.JSONOutputFlag,
		false,
		"get all outputs in json format (default false)",
	)
}

// RegisterConfigFlags registers --config and --log-level for all child commands
func RegisterConfigFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(
		command.ConfigFlag,
		"",
		"the path to the CLI config. Supports .json, .hcl, .yaml and .yml",
	)

	cmd.PersistentFlags().String(
		command.LogLevelFlag,
		command.DefaultLogLevel,
		"the log level for console output",
	)
}

// SwitchName is the command line spelling of a debug flag, e.g.
// DEBUG_TRACE_EXECUTION becomes trace-execution.
func SwitchName(f debug.Flag) string {
	name := strings.TrimPrefix(f.String(), "DEBUG_")

	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

// RegisterDebugFlags registers one boolean switch per debug flag for all
// child commands. A switch only takes part in resolution when it is given
// explicitly, so --trace-execution=false switches tracing off even in a
// build that defines it.
func RegisterDebugFlags(cmd *cobra.Command) {
	for _, f := range debug.All() {
		cmd.PersistentFlags().Bool(
			SwitchName(f),
			false,
			"enable "+f.String(),
		)
	}
}
