package helper

import (
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"arlindohall.com/glox/command"
	"arlindohall.com/glox/config"
	"arlindohall.com/glox/debug"
	"arlindohall.com/glox/interpreter"
	"arlindohall.com/glox/telemetry"
)

// CommandLineLayerName names the layer built from debug switches.
const CommandLineLayerName = "command-line"

// Environment is everything a command needs before it can build an
// interpreter. Flags is resolved once here and never changes afterwards.
type Environment struct {
	Config *config.Config
	Layers []debug.Layer
	Flags  debug.Flags
	Logger hclog.Logger

	// Telemetry holds the counters reported while the command runs.
	Telemetry *telemetry.Telemetry

	closer io.Closer
}

// NewEnvironment resolves the debug flags in order: the layers fixed at
// build time, then the config file, then the command line.
func NewEnvironment(cmd *cobra.Command) (*Environment, error) {
	cfg := config.DefaultConfig()

	if path := stringFlag(cmd, command.ConfigFlag); path != "" {
		var err error

		if cfg, err = config.ReadConfigFile(path); err != nil {
			return nil, err
		}
	}

	if flag := cmd.Flag(command.LogLevelFlag); flag != nil && flag.Changed {
		cfg.LogLevel = flag.Value.String()
	}

	logger, closer, err := cfg.Logger(command.DefaultLoggerName, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	tel, err := telemetry.New()
	if err != nil {
		_ = closer.Close()

		return nil, err
	}

	layers := debug.BuildLayers()

	if fileLayer := cfg.Debug.Layer(config.FileLayerName); !fileLayer.IsEmpty() {
		layers = append(layers, fileLayer)
	}

	if cliLayer := CommandLineLayer(cmd); !cliLayer.IsEmpty() {
		layers = append(layers, cliLayer)
	}

	flags := debug.Resolve(layers...)

	logger.Debug("resolved debug flags", "layers", len(layers), "enabled", flags.String())

	return &Environment{
		Config: cfg,
		Layers: layers,
		Flags:  flags,
		Logger: logger,

		Telemetry: tel,
		closer:    closer,
	}, nil
}

// NewInterpreter builds an interpreter that writes program output and
// diagnostics to the command's writers.
func (e *Environment) NewInterpreter(cmd *cobra.Command) *interpreter.Interpreter {
	return interpreter.New(interpreter.Options{
		Flags:         e.Flags,
		Stdout:        cmd.OutOrStdout(),
		Diagnostics:   cmd.ErrOrStderr(),
		JSONLogFormat: e.Config.JSONLogFormat,
		Logger:        e.Logger.Named("interpreter"),
		Metrics:       e.Telemetry.Metrics,
	})
}

// CommandLineLayer collects the debug switches given explicitly on the
// command line.
func CommandLineLayer(cmd *cobra.Command) debug.Layer {
	layer := debug.Layer{Name: CommandLineLayerName}

	for _, f := range debug.All() {
		flag := cmd.Flag(SwitchName(f))
		if flag == nil || !flag.Changed {
			continue
		}

		if flag.Value.String() == "true" {
			layer.Define = append(layer.Define, f)
		} else {
			layer.Undef = append(layer.Undef, f)
		}
	}

	return layer
}

func (e *Environment) Close() error {
	return e.closer.Close()
}

func stringFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flag(name)
	if flag == nil {
		return ""
	}

	return flag.Value.String()
}
