// Package telemetry collects the counters and gauges reported by the heap
// and the VM into an in-memory sink.
package telemetry

import (
	"sort"
	"strings"
	"time"

	"github.com/armon/go-metrics"
	"github.com/hashicorp/go-hclog"
)

const (
	ServiceName = "glox"

	interval  = 10 * time.Second
	retention = time.Minute
)

type Telemetry struct {
	*metrics.Metrics

	sink *metrics.InmemSink
}

func config() *metrics.Config {
	conf := metrics.DefaultConfig(ServiceName)
	conf.EnableHostname = false
	conf.EnableHostnameLabel = false
	conf.EnableRuntimeMetrics = false

	return conf
}

// New returns metrics that report to a fresh in-memory sink.
func New() (*Telemetry, error) {
	sink := metrics.NewInmemSink(interval, retention)

	m, err := metrics.New(config(), sink)
	if err != nil {
		return nil, err
	}

	return &Telemetry{Metrics: m, sink: sink}, nil
}

// Discard returns metrics that drop everything reported to them.
func Discard() *metrics.Metrics {
	m, _ := metrics.New(config(), &metrics.BlackholeSink{})

	return m
}

func name(key []string) string {
	return strings.Join(append([]string{ServiceName}, key...), ".")
}

// Counter sums the counter named by key over every retained interval.
func (t *Telemetry) Counter(key ...string) float64 {
	var total float64

	for _, data := range t.sink.Data() {
		data.RLock()
		if c, ok := data.Counters[name(key)]; ok {
			total += c.Sum
		}
		data.RUnlock()
	}

	return total
}

// Gauge returns the most recent value of the gauge named by key.
func (t *Telemetry) Gauge(key ...string) (float32, bool) {
	intervals := t.sink.Data()

	for i := len(intervals) - 1; i >= 0; i-- {
		data := intervals[i]

		data.RLock()
		g, ok := data.Gauges[name(key)]
		data.RUnlock()

		if ok {
			return g.Value, true
		}
	}

	return 0, false
}

// Report logs every counter and gauge at debug level.
func (t *Telemetry) Report(logger hclog.Logger) {
	if !logger.IsDebug() {
		return
	}

	counters := make(map[string]float64)
	gauges := make(map[string]float32)

	for _, data := range t.sink.Data() {
		data.RLock()
		for k, c := range data.Counters {
			counters[k] += c.Sum
		}

		for k, g := range data.Gauges {
			gauges[k] = g.Value
		}
		data.RUnlock()
	}

	for _, k := range sortedKeys(counters) {
		logger.Debug("counter", "name", k, "value", counters[k])
	}

	for _, k := range sortedKeys(gauges) {
		logger.Debug("gauge", "name", k, "value", gauges[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
