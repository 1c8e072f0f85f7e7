package sandbox

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// ExecStats holds execution statistics for a Sandbox.
type ExecStats struct {
	// TotalQueries is the number of row-returning statements executed.
	TotalQueries atomic.Int64
	// TotalExecs is the number of row-affecting statements executed.
	TotalExecs atomic.Int64
	// TotalDuration is the total time spent executing, in nanoseconds.
	TotalDuration atomic.Int64
	// SlowStatements is the count of statements exceeding the slow threshold.
	SlowStatements atomic.Int64
	// Errors is the count of engine execution failures.
	Errors atomic.Int64
	// Denied is the count of statements refused by the policy.
	Denied atomic.Int64
	// CacheHits is the count of row results served from the cache.
	CacheHits atomic.Int64
}

// Snapshot returns a point-in-time copy of the statistics.
func (s *ExecStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:   s.TotalQueries.Load(),
		TotalExecs:     s.TotalExecs.Load(),
		TotalDuration:  time.Duration(s.TotalDuration.Load()),
		SlowStatements: s.SlowStatements.Load(),
		Errors:         s.Errors.Load(),
		Denied:         s.Denied.Load(),
		CacheHits:      s.CacheHits.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *ExecStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowStatements.Store(0)
	s.Errors.Store(0)
	s.Denied.Store(0)
	s.CacheHits.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of execution statistics.
type StatsSnapshot struct {
	TotalQueries   int64
	TotalExecs     int64
	TotalDuration  time.Duration
	SlowStatements int64
	Errors         int64
	Denied         int64
	CacheHits      int64
}

// AvgDuration returns the average statement duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d denied=%d cacheHits=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgDuration(),
		s.SlowStatements, s.Errors, s.Denied, s.CacheHits,
	)
}

// SlowHook is called for every statement exceeding the slow threshold.
type SlowHook func(ctx context.Context, statement string, args []any, duration time.Duration)
