package statestore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLatencySnapshotPercentiles(t *testing.T) {
	stats := NewLatency(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, false)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestLatencyPrunesExpiredSamples(t *testing.T) {
	stats := NewLatency(time.Minute)
	now := time.Unix(1_700_000_000, 0)
	stats.now = func() time.Time { return now }

	stats.Record(100*time.Millisecond, true)
	now = now.Add(2 * time.Minute)
	if snap := stats.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200*time.Millisecond, false)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.Errors != 0 {
		t.Fatalf("expected one fresh successful sample, got %+v", snap)
	}
}

func TestLatencyRecordClampsNegativeDuration(t *testing.T) {
	stats := NewLatency(time.Hour)
	stats.Record(-10*time.Millisecond, false)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got %+v", snap)
	}
}

type failingStore struct{}

func (failingStore) Save(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func (failingStore) Restore(context.Context, string) ([]byte, error) {
	return nil, nil
}

func TestInstrumented(t *testing.T) {
	ctx := context.Background()
	s := Instrument(NewMemory(), "memory", time.Hour)
	s.Save(ctx, "a/k", []byte("v"))
	s.Restore(ctx, "a/k")
	s.Restore(ctx, "missing")

	snap := s.Stats()
	if snap.Backend != "memory" || snap.Save.Count != 1 || snap.Restore.Count != 2 {
		t.Errorf("unexpected stats %+v", snap)
	}
	keys, err := s.Keys(ctx, "a/")
	if err != nil || len(keys) != 1 {
		t.Errorf("expected keys to pass through, got %v %v", keys, err)
	}
	if err := s.Delete(ctx, "a/k"); err != nil {
		t.Errorf("expected delete to pass through, got %v", err)
	}
}

func TestInstrumented_UnsupportedAndFailures(t *testing.T) {
	ctx := context.Background()
	s := Instrument(failingStore{}, "broken", time.Hour)
	if err := s.Save(ctx, "k", []byte("v")); err == nil {
		t.Fatal("expected save error")
	}
	if got := s.Stats().Save.Errors; got != 1 {
		t.Errorf("expected 1 recorded failure, got %d", got)
	}
	if _, err := s.Keys(ctx, ""); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if err := s.Delete(ctx, "k"); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}
