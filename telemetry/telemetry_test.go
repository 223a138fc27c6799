package telemetry

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndGauges(t *testing.T) {
	tel, err := New()
	require.NoError(t, err)

	tel.IncrCounter([]string{"gc", "collections"}, 1)
	tel.IncrCounter([]string{"gc", "collections"}, 2)
	tel.SetGauge([]string{"gc", "live_bytes"}, 64)
	tel.SetGauge([]string{"gc", "live_bytes"}, 32)

	assert.Equal(t, float64(3), tel.Counter("gc", "collections"))
	assert.Zero(t, tel.Counter("vm", "instructions"))

	live, ok := tel.Gauge("gc", "live_bytes")
	require.True(t, ok)
	assert.Equal(t, float32(32), live)

	_, ok = tel.Gauge("missing")
	assert.False(t, ok)
}

func TestReportOnlyAtDebug(t *testing.T) {
	tel, err := New()
	require.NoError(t, err)

	tel.IncrCounter([]string{"vm", "instructions"}, 7)

	var buf bytes.Buffer

	tel.Report(hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Info}))
	assert.Empty(t, buf.String())

	tel.Report(hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug, DisableTime: true}))
	assert.Contains(t, buf.String(), "counter: name=glox.vm.instructions value=7")
}

func TestDiscardAcceptsEverything(t *testing.T) {
	m := Discard()

	assert.NotPanics(t, func() {
		m.IncrCounter([]string{"gc", "collections"}, 1)
		m.SetGauge([]string{"gc", "live_bytes"}, 1)
	})
}
