package statestore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/wikinav/internal/expansion"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
	failed     bool
}

// LatencySnapshot is a point-in-time aggregate of one operation's latency.
type LatencySnapshot struct {
	Count  int     `json:"count"`
	Errors int     `json:"errors"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Latency tracks recent call latencies within a rolling window.
type Latency struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
	now     func() time.Time
}

func NewLatency(maxAge time.Duration) *Latency {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Latency{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

func (l *Latency) Record(d time.Duration, failed bool) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	l.samples = append(l.samples, sample{timestamp: now, durationMs: ms, failed: failed})
}

func (l *Latency) Snapshot() LatencySnapshot {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	if len(l.samples) == 0 {
		return LatencySnapshot{}
	}

	values := make([]int64, 0, len(l.samples))
	var sum int64
	failed := 0
	for _, sm := range l.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		if sm.failed {
			failed++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return LatencySnapshot{
		Count:  len(values),
		Errors: failed,
		MinMs:  values[0],
		MaxMs:  values[len(values)-1],
		AvgMs:  float64(sum) / float64(len(values)),
		P50Ms:  percentile(values, 50),
		P95Ms:  percentile(values, 95),
		P99Ms:  percentile(values, 99),
	}
}

func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.maxAge)
	writeIdx := 0
	for _, sm := range l.samples {
		if !sm.timestamp.Before(cutoff) {
			l.samples[writeIdx] = sm
			writeIdx++
		}
	}
	l.samples = l.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}

// StatsSnapshot reports save and restore latency for a backend.
type StatsSnapshot struct {
	Backend string          `json:"backend"`
	Save    LatencySnapshot `json:"save"`
	Restore LatencySnapshot `json:"restore"`
}

// Instrumented wraps a backend and records how long each call takes.
// Keys and Delete pass through when the wrapped backend supports them and
// return errors.ErrUnsupported otherwise.
type Instrumented struct {
	inner   expansion.Store
	name    string
	save    *Latency
	restore *Latency
}

var (
	_ expansion.Store = (*Instrumented)(nil)
	_ Lister          = (*Instrumented)(nil)
	_ Deleter         = (*Instrumented)(nil)
)

func Instrument(inner expansion.Store, name string, window time.Duration) *Instrumented {
	return &Instrumented{
		inner:   inner,
		name:    name,
		save:    NewLatency(window),
		restore: NewLatency(window),
	}
}

func (s *Instrumented) Save(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.inner.Save(ctx, key, value)
	s.save.Record(time.Since(start), err != nil)
	return err
}

func (s *Instrumented) Restore(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := s.inner.Restore(ctx, key)
	s.restore.Record(time.Since(start), err != nil)
	return data, err
}

func (s *Instrumented) Keys(ctx context.Context, prefix string) ([]string, error) {
	l, ok := s.inner.(Lister)
	if !ok {
		return nil, errors.ErrUnsupported
	}
	return l.Keys(ctx, prefix)
}

func (s *Instrumented) Delete(ctx context.Context, key string) error {
	d, ok := s.inner.(Deleter)
	if !ok {
		return errors.ErrUnsupported
	}
	return d.Delete(ctx, key)
}

func (s *Instrumented) Stats() StatsSnapshot {
	return StatsSnapshot{
		Backend: s.name,
		Save:    s.save.Snapshot(),
		Restore: s.restore.Snapshot(),
	}
}
