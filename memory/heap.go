// Package memory owns every object the interpreter allocates at runtime and
// reclaims the ones no root can reach.
//
// Reclaiming means dropping the heap's reference so the Go collector can
// free the storage; the mark and sweep still runs here so that reachability
// bugs in the compiler or VM show up as missing values, which is what
// DEBUG_STRESS_GC is for.
package memory

import (
	"github.com/armon/go-metrics"
	"github.com/hashicorp/go-hclog"

	"arlindohall.com/glox/debug"
	"arlindohall.com/glox/telemetry"
	"arlindohall.com/glox/value"
)

const (
	initialThreshold = 1024 * 1024
	growFactor       = 2

	stringOverhead = 32
	tableOverhead  = 64
	entrySize      = 48
)

// RootFunc reports every value its owner keeps alive by calling mark.
type RootFunc func(mark func(value.Value))

type Stats struct {
	Before int
	After  int
	Freed  int
}

// Heap is not safe for concurrent use. An interpreter owns exactly one.
type Heap struct {
	flags   debug.Flags
	logger  hclog.Logger
	metrics *metrics.Metrics

	objects        []value.Object
	roots          map[int]RootFunc
	nextRoot       int
	gray           []value.Object
	bytesAllocated int
	nextGC         int
	collections    int
}

// NewHeap returns an empty heap. GC events are logged to logger when
// flags has DEBUG_LOG_GC; collection counts always go to sink. Either may
// be nil.
func NewHeap(flags debug.Flags, logger hclog.Logger, sink *metrics.Metrics) *Heap {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if sink == nil {
		sink = telemetry.Discard()
	}

	return &Heap{
		flags:   flags,
		logger:  logger.Named("gc"),
		metrics: sink,
		roots:   make(map[int]RootFunc),
		nextGC:  initialThreshold,
	}
}

// Metrics is where the heap reports collections. The VM reports to the
// same place.
func (h *Heap) Metrics() *metrics.Metrics {
	return h.metrics
}

// AddRoots registers a root set. The returned func unregisters it.
func (h *Heap) AddRoots(fn RootFunc) (remove func()) {
	id := h.nextRoot
	h.nextRoot++
	h.roots[id] = fn

	return func() {
		delete(h.roots, id)
	}
}

func (h *Heap) NewString(chars string) *value.String {
	s := &value.String{Chars: chars}
	h.track(s)

	return s
}

func (h *Heap) NewTable() *value.Table {
	t := value.NewTable()
	h.track(t)

	return t
}

func (h *Heap) Live() int           { return len(h.objects) }
func (h *Heap) BytesAllocated() int { return h.bytesAllocated }
func (h *Heap) Collections() int    { return h.collections }

func (h *Heap) track(obj value.Object) {
	size := sizeOf(obj)

	if h.flags.StressGC() || h.bytesAllocated+size > h.nextGC {
		h.Collect()
	}

	h.objects = append(h.objects, obj)
	h.bytesAllocated += size

	if h.flags.LogGC() {
		h.logger.Info("allocate", "type", obj.Type(), "size", size, "live", len(h.objects))
	}
}

// Collect marks everything reachable from the registered roots and drops
// the rest.
func (h *Heap) Collect() Stats {
	stats := Stats{Before: h.bytesAllocated}

	if h.flags.LogGC() {
		h.logger.Info("gc begin", "objects", len(h.objects), "bytes", h.bytesAllocated)
	}

	for _, root := range h.roots {
		root(h.markValue)
	}

	h.traceReferences()
	stats.Freed = h.sweep()
	stats.After = h.bytesAllocated

	h.nextGC = h.bytesAllocated * growFactor
	if h.nextGC < initialThreshold {
		h.nextGC = initialThreshold
	}

	h.collections++

	h.metrics.IncrCounter([]string{"gc", "collections"}, 1)
	h.metrics.IncrCounter([]string{"gc", "freed"}, float32(stats.Freed))
	h.metrics.SetGauge([]string{"gc", "live_bytes"}, float32(h.bytesAllocated))

	if h.flags.LogGC() {
		h.logger.Info("gc end",
			"collected", stats.Before-stats.After,
			"from", stats.Before,
			"to", stats.After,
			"next", h.nextGC,
		)
	}

	return stats
}

func (h *Heap) markValue(v value.Value) {
	obj, ok := v.(value.Object)
	if !ok || obj.IsMarked() {
		return
	}

	obj.Mark()
	h.gray = append(h.gray, obj)
}

func (h *Heap) traceReferences() {
	for len(h.gray) > 0 {
		last := len(h.gray) - 1
		obj := h.gray[last]
		h.gray = h.gray[:last]

		for _, ref := range obj.References() {
			h.markValue(ref)
		}
	}
}

func (h *Heap) sweep() (freed int) {
	live := h.objects[:0]
	h.bytesAllocated = 0

	for _, obj := range h.objects {
		if obj.IsMarked() {
			obj.Unmark()
			live = append(live, obj)
			h.bytesAllocated += sizeOf(obj)

			continue
		}

		freed++

		if h.flags.LogGC() {
			h.logger.Info("free", "type", obj.Type())
		}
	}

	for i := len(live); i < len(h.objects); i++ {
		h.objects[i] = nil
	}

	h.objects = live

	return freed
}

func sizeOf(obj value.Object) int {
	switch obj := obj.(type) {
	case *value.String:
		return stringOverhead + len(obj.Chars)
	case *value.Table:
		return tableOverhead + entrySize*obj.Len()
	default:
		return stringOverhead
	}
}
