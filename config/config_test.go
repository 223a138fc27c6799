package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arlindohall.com/glox/debug"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	return path
}

func boolPtr(b bool) *bool {
	return &b
}

func TestReadConfigFile(t *testing.T) {
	files := map[string]string{
		"glox.hcl": `
log_level = "DEBUG"

debug {
  trace_execution = true
  stress_gc = false
}
`,
		"glox.json": `{
  "log_level": "DEBUG",
  "debug": {"trace_execution": true, "stress_gc": false}
}`,
		"glox.yaml": `
log_level: DEBUG
debug:
  trace_execution: true
  stress_gc: false
`,
		"glox.yml": `
log_level: DEBUG
debug:
  trace_execution: true
  stress_gc: false
`,
	}

	for name, content := range files {
		config, err := ReadConfigFile(writeConfig(t, name, content))
		require.NoError(t, err, name)

		assert.Equal(t, "DEBUG", config.LogLevel, name)
		require.NotNil(t, config.Debug, name)
		assert.Equal(t, boolPtr(true), config.Debug.TraceExecution, name)
		assert.Equal(t, boolPtr(false), config.Debug.StressGC, name)
		assert.Nil(t, config.Debug.PrintCode, name)
		assert.Nil(t, config.Debug.LogGC, name)
	}
}

func TestReadConfigFileKeepsDefaults(t *testing.T) {
	config, err := ReadConfigFile(writeConfig(t, "glox.json", `{}`))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), config)
}

func TestReadConfigFileUnknownSuffix(t *testing.T) {
	_, err := ReadConfigFile(writeConfig(t, "glox.toml", `log_level = "INFO"`))
	assert.ErrorContains(t, err, "neither hcl, json, yaml nor yml")
}

func TestReadConfigFileMissing(t *testing.T) {
	_, err := ReadConfigFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigFileMalformed(t *testing.T) {
	_, err := ReadConfigFile(writeConfig(t, "glox.json", `{"log_level": `))
	assert.Error(t, err)
}

func TestDebugLayer(t *testing.T) {
	d := &Debug{
		TraceExecution: boolPtr(true),
		StressGC:       boolPtr(false),
	}

	layer := d.Layer(FileLayerName)

	assert.Equal(t, FileLayerName, layer.Name)
	assert.Equal(t, []debug.Flag{debug.TraceExecution}, layer.Define)
	assert.Equal(t, []debug.Flag{debug.StressGC}, layer.Undef)
}

func TestDebugLayerOnlyTouchesSetSwitches(t *testing.T) {
	start := debug.Resolve(debug.Layer{Define: debug.All()})

	fromFile := (&Debug{LogGC: boolPtr(false)}).Layer(FileLayerName)
	flags := debug.Resolve(debug.Layer{Define: debug.All()}, fromFile)

	for _, f := range debug.All() {
		if f == debug.LogGC {
			assert.False(t, flags.IsEnabled(f))
			continue
		}

		assert.Equal(t, start.IsEnabled(f), flags.IsEnabled(f), f.String())
	}
}

func TestNilDebugLayerIsEmpty(t *testing.T) {
	var d *Debug

	assert.True(t, d.Layer(FileLayerName).IsEmpty())
	assert.True(t, DefaultConfig().Debug.Layer(FileLayerName).IsEmpty())
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	config := DefaultConfig()
	config.LogLevel = "LOUD"

	_, _, err := config.Logger("glox", io.Discard)
	assert.ErrorContains(t, err, "unknown log level")
}

func TestLoggerWritesToFile(t *testing.T) {
	config := DefaultConfig()
	config.JSONLogFormat = true
	config.LogFilePath = filepath.Join(t.TempDir(), "glox.log")

	logger, closer, err := config.Logger("glox", io.Discard)
	require.NoError(t, err)

	logger.Info("resolved", "debug", "none")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(config.LogFilePath)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"@message":"resolved"`)
	assert.Contains(t, string(data), `"@module":"glox"`)
}

func TestLoggerWritesToGivenOutput(t *testing.T) {
	var buf bytes.Buffer

	logger, closer, err := DefaultConfig().Logger("glox", &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, closer.Close())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "glox: shown")
}
