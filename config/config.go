package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"arlindohall.com/glox/debug"
)

// FileLayerName names the layer built from a config file in the resolved chain.
const FileLayerName = "file"

// Config defines the glox configuration file
type Config struct {
	LogLevel      string `json:"log_level" yaml:"log_level" hcl:"log_level"`
	JSONLogFormat bool   `json:"json_log_format" yaml:"json_log_format" hcl:"json_log_format"`
	LogFilePath   string `json:"log_to" yaml:"log_to" hcl:"log_to"`
	Debug         *Debug `json:"debug" yaml:"debug" hcl:"debug"`
}

// Debug holds the debug switches set by a config file. A nil field keeps
// whatever the build layers resolved.
type Debug struct {
	PrintCode      *bool `json:"print_code,omitempty" yaml:"print_code,omitempty" hcl:"print_code"`
	TraceExecution *bool `json:"trace_execution,omitempty" yaml:"trace_execution,omitempty" hcl:"trace_execution"`
	StressGC       *bool `json:"stress_gc,omitempty" yaml:"stress_gc,omitempty" hcl:"stress_gc"`
	LogGC          *bool `json:"log_gc,omitempty" yaml:"log_gc,omitempty" hcl:"log_gc"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "INFO",
		JSONLogFormat: false,
		LogFilePath:   "",
		Debug:         &Debug{},
	}
}

// ReadConfigFile reads the config file from the specified path, builds a Config object
// and returns it.
//
// Supported file types: .json, .hcl, .yaml, .yml
func ReadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var unmarshalFunc func([]byte, interface{}) error

	switch {
	case strings.HasSuffix(path, ".hcl"):
		unmarshalFunc = hcl.Unmarshal
	case strings.HasSuffix(path, ".json"):
		unmarshalFunc = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		unmarshalFunc = yaml.Unmarshal
	default:
		return nil, fmt.Errorf("suffix of %s is neither hcl, json, yaml nor yml", path)
	}

	config := DefaultConfig()

	if err := unmarshalFunc(data, config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}

	if config.Debug == nil {
		config.Debug = &Debug{}
	}

	return config, nil
}

// Layer turns the switches set in the file into a configuration layer.
// Switches left out of the file do not appear in the layer at all.
func (d *Debug) Layer(name string) debug.Layer {
	layer := debug.Layer{Name: name}

	if d == nil {
		return layer
	}

	for _, setting := range []struct {
		flag  debug.Flag
		value *bool
	}{
		{debug.PrintCode, d.PrintCode},
		{debug.TraceExecution, d.TraceExecution},
		{debug.StressGC, d.StressGC},
		{debug.LogGC, d.LogGC},
	} {
		switch {
		case setting.value == nil:
		case *setting.value:
			layer.Define = append(layer.Define, setting.flag)
		default:
			layer.Undef = append(layer.Undef, setting.flag)
		}
	}

	return layer
}

// Logger builds the process logger. Output goes to output unless the
// config names a log file.
func (c *Config) Logger(name string, output io.Writer) (hclog.Logger, io.Closer, error) {
	level := hclog.LevelFromString(c.LogLevel)
	if level == hclog.NoLevel {
		return nil, nil, fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		JSONFormat: c.JSONLogFormat,
		Output:     output,
	}

	var closer io.Closer = nopCloser{}

	if c.LogFilePath != "" {
		file, err := os.OpenFile(c.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file %s: %w", c.LogFilePath, err)
		}

		opts.Output = file
		closer = file
	}

	return hclog.New(opts), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
