package status

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
)

// Registry is the central metrics facade
// The physics step caches pointers at construction and writes atomics directly;
// the HUD reads them from another goroutine
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Lines formats every metric whose key starts with prefix as "key value",
// sorted by key across all types
func (r *Registry) Lines(prefix string) []string {
	var lines []string
	add := func(key, val string) {
		if strings.HasPrefix(key, prefix) {
			lines = append(lines, key+" "+val)
		}
	}
	r.Bools.Range(func(k string, v *atomic.Bool) { add(k, fmt.Sprint(v.Load())) })
	r.Ints.Range(func(k string, v *atomic.Int64) { add(k, fmt.Sprint(v.Load())) })
	r.Floats.Range(func(k string, v *AtomicFloat) { add(k, fmt.Sprintf("%.4f", v.Get())) })
	r.Strings.Range(func(k string, v *AtomicString) { add(k, v.Load()) })
	slices.Sort(lines)
	return lines
}
