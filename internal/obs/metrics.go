package obs

import (
	"sort"
	"strings"
	"sync"
)

// Label is a key/value pair attached to measurements.
type Label struct {
	Key   string
	Value string
}

// Meter is a very small interface for emitting counters/histograms.
// Implementations may no-op or bridge to a metrics system.
type Meter interface {
	Counter(name string, value float64, labels ...Label)
	Histogram(name string, value float64, labels ...Label)
}

// NopMeter is a Meter that discards all measurements.
type NopMeter struct{}

func (NopMeter) Counter(name string, value float64, labels ...Label)   {}
func (NopMeter) Histogram(name string, value float64, labels ...Label) {}

// Summary aggregates histogram observations.
type Summary struct {
	Count int
	Sum   float64
}

// MemoryMeter keeps measurements in memory. It is safe for concurrent use.
type MemoryMeter struct {
	mu         sync.Mutex
	counters   map[string]float64
	histograms map[string]Summary
}

func NewMemoryMeter() *MemoryMeter {
	return &MemoryMeter{
		counters:   make(map[string]float64),
		histograms: make(map[string]Summary),
	}
}

func (m *MemoryMeter) Counter(name string, value float64, labels ...Label) {
	m.mu.Lock()
	m.counters[seriesKey(name, labels)] += value
	m.mu.Unlock()
}

func (m *MemoryMeter) Histogram(name string, value float64, labels ...Label) {
	m.mu.Lock()
	k := seriesKey(name, labels)
	s := m.histograms[k]
	s.Count++
	s.Sum += value
	m.histograms[k] = s
	m.mu.Unlock()
}

// CounterValue returns the current value of a counter series.
func (m *MemoryMeter) CounterValue(name string, labels ...Label) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[seriesKey(name, labels)]
}

// HistogramSummary returns the aggregate of a histogram series.
func (m *MemoryMeter) HistogramSummary(name string, labels ...Label) Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.histograms[seriesKey(name, labels)]
}

// Snapshot returns a copy of all counter series keyed by name{k=v,...}.
func (m *MemoryMeter) Snapshot() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}

func seriesKey(name string, labels []Label) string {
	if len(labels) == 0 {
		return name
	}
	ls := make([]string, len(labels))
	for i, l := range labels {
		ls[i] = l.Key + "=" + l.Value
	}
	sort.Strings(ls)
	return name + "{" + strings.Join(ls, ",") + "}"
}
