package status

import (
	"sort"
	"strconv"
	"sync/atomic"
)

// Registry is the diagnostics facade shared by the scheduler, the engine wiring and the overlay
// Writers cache cell pointers at construction; the overlay reads them through Snapshot
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// Metric is one formatted registry entry
type Metric struct {
	Key   string
	Value string
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of metrics across all kinds
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot formats every metric, sorted by key
// Floats use two decimals
func (r *Registry) Snapshot() []Metric {
	out := make([]Metric, 0, r.TotalCount())
	r.Strings.Range(func(key string, ptr *AtomicString) {
		out = append(out, Metric{Key: key, Value: ptr.Load()})
	})
	r.Bools.Range(func(key string, ptr *atomic.Bool) {
		out = append(out, Metric{Key: key, Value: strconv.FormatBool(ptr.Load())})
	})
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		out = append(out, Metric{Key: key, Value: strconv.FormatInt(ptr.Load(), 10)})
	})
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		out = append(out, Metric{Key: key, Value: strconv.FormatFloat(ptr.Load(), 'f', 2, 64)})
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
