package memory

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arlindohall.com/glox/debug"
	"arlindohall.com/glox/telemetry"
	"arlindohall.com/glox/value"
)

func bufferLogger(buf *bytes.Buffer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Output:          buf,
		Level:           hclog.Trace,
		DisableTime:     true,
		IncludeLocation: false,
	})
}

func TestCollectKeepsReachableObjects(t *testing.T) {
	heap := NewHeap(debug.Flags{}, nil, nil)

	var kept []value.Value
	heap.AddRoots(func(mark func(value.Value)) {
		for _, v := range kept {
			mark(v)
		}
	})

	table := heap.NewTable()
	key := heap.NewString("inner")
	inner := heap.NewTable()
	require.True(t, table.Set(key, inner))
	kept = append(kept, table)

	heap.NewString("garbage")
	heap.NewTable()

	require.Equal(t, 5, heap.Live())

	stats := heap.Collect()

	assert.Equal(t, 2, stats.Freed)
	assert.Equal(t, 3, heap.Live())
	assert.Less(t, stats.After, stats.Before)
	assert.False(t, table.IsMarked())
	assert.Equal(t, 1, heap.Collections())
}

func TestRemovedRootsNoLongerProtect(t *testing.T) {
	heap := NewHeap(debug.Flags{}, nil, nil)

	s := heap.NewString("pinned")
	remove := heap.AddRoots(func(mark func(value.Value)) {
		mark(s)
	})

	heap.Collect()
	assert.Equal(t, 1, heap.Live())

	remove()
	heap.Collect()
	assert.Zero(t, heap.Live())
}

func TestStressCollectsBeforeEveryAllocation(t *testing.T) {
	heap := NewHeap(debug.Flags{}.With(debug.StressGC, true), nil, nil)

	for i := 0; i < 5; i++ {
		heap.NewString("s")
	}

	assert.Equal(t, 5, heap.Collections())
	// nothing is rooted, so only the newest string survives
	assert.Equal(t, 1, heap.Live())
}

func TestNoCollectionBelowThreshold(t *testing.T) {
	heap := NewHeap(debug.Flags{}, nil, nil)

	for i := 0; i < 100; i++ {
		heap.NewString("small")
	}

	assert.Zero(t, heap.Collections())
	assert.Equal(t, 100, heap.Live())
}

func TestLogGC(t *testing.T) {
	var buf bytes.Buffer

	heap := NewHeap(debug.Flags{}.With(debug.LogGC, true), bufferLogger(&buf), nil)
	heap.NewString("hello")
	heap.Collect()

	out := buf.String()
	assert.Contains(t, out, "gc: allocate: type=string")
	assert.Contains(t, out, "gc: gc begin")
	assert.Contains(t, out, "gc: free: type=string")
	assert.Contains(t, out, "gc: gc end")
}

func TestSilentWithoutLogGC(t *testing.T) {
	var buf bytes.Buffer

	heap := NewHeap(debug.Flags{}.With(debug.StressGC, true), bufferLogger(&buf), nil)
	heap.NewString("hello")
	heap.NewTable()
	heap.Collect()

	assert.Empty(t, buf.String())
}

func TestCollectionsAreReported(t *testing.T) {
	tel, err := telemetry.New()
	require.NoError(t, err)

	heap := NewHeap(debug.Flags{}.With(debug.StressGC, true), nil, tel.Metrics)

	for i := 0; i < 5; i++ {
		heap.NewString("s")
	}

	assert.Equal(t, float64(5), tel.Counter("gc", "collections"))
	assert.Equal(t, float64(4), tel.Counter("gc", "freed"))

	live, ok := tel.Gauge("gc", "live_bytes")
	require.True(t, ok)
	assert.Zero(t, live)
}
