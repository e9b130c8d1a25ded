package status

import (
	"sync"
	"sync/atomic"
	"testing"
)

// TestMetricMapCachesPointer verifies repeated Get returns the same metric
func TestMetricMapCachesPointer(t *testing.T) {
	m := NewMetricMap[atomic.Int64]()
	a := m.Get("physics.steps")
	a.Add(3)

	if b := m.Get("physics.steps"); b != a || b.Load() != 3 {
		t.Errorf("Expected cached pointer with value 3, got %d", b.Load())
	}
	if !m.Has("physics.steps") || m.Has("physics.missing") {
		t.Error("Unexpected Has result")
	}
}

// TestMetricMapConcurrentGet verifies racing registrations agree on one pointer
func TestMetricMapConcurrentGet(t *testing.T) {
	m := NewMetricMap[atomic.Int64]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Get("shared").Add(1)
		}()
	}
	wg.Wait()

	if got := m.Get("shared").Load(); got != 16 {
		t.Errorf("Expected 16, got %d", got)
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 metric, got %d", m.Count())
	}
}

// TestAtomicFloat verifies Set, Add and Max
func TestAtomicFloat(t *testing.T) {
	var f AtomicFloat
	if f.Get() != 0 {
		t.Errorf("Expected zero value 0, got %f", f.Get())
	}
	f.Set(1.5)
	if got := f.Add(0.25); got != 1.75 {
		t.Errorf("Expected 1.75, got %f", got)
	}
	if got := f.Max(1.0); got != 1.75 {
		t.Errorf("Expected Max to keep 1.75, got %f", got)
	}
	if got := f.Max(4); got != 4 || f.Get() != 4 {
		t.Errorf("Expected Max to raise to 4, got %f", got)
	}
}

// TestAtomicStringTruncates verifies bounded storage
func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("Expected empty zero value")
	}
	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	s.Store(long)
	if got := s.Load(); len(got) != MaxStringLen || got != long[:MaxStringLen] {
		t.Errorf("Expected truncation to %d, got %q", MaxStringLen, got)
	}
}

// TestRegistryLines verifies prefix filtering and sorted output
func TestRegistryLines(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("physics.steps").Store(12)
	r.Floats.Get("physics.accumulator").Set(0.005)
	r.Bools.Get("physics.catchup.active").Store(true)
	r.Strings.Get("sandbox.mode").Store("tear")

	lines := r.Lines("physics.")
	want := []string{
		"physics.accumulator 0.0050",
		"physics.catchup.active true",
		"physics.steps 12",
	}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
	if r.TotalCount() != 4 {
		t.Errorf("Expected 4 metrics, got %d", r.TotalCount())
	}
}
