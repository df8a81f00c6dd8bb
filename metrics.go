package authcore

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID int

// Engine counters. Keep metricIDCount last.
const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricLoginLockout
	MetricRegisterSuccess
	MetricRegisterConflict
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricLogout
	MetricEmailVerificationRequested
	MetricEmailVerificationConfirmed
	MetricEmailVerificationRejected
	MetricPasswordResetRequested
	MetricPasswordResetConfirmed
	MetricPasswordResetRejected
	MetricTokenBlacklisted
	metricIDCount
)

// paddedCounter keeps each counter on its own cache line so concurrent
// increments of different metrics do not false-share.
type paddedCounter struct {
	value atomic.Uint64
	_     [56]byte
}

// Metrics is the engine's counter set. All methods are safe for
// concurrent use. A nil *Metrics is a valid no-op receiver so disabled
// metrics cost a single nil check.
type Metrics struct {
	counters [metricIDCount]paddedCounter
}

// NewMetrics returns an empty counter set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Inc bumps the counter for id. Out-of-range ids are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id < 0 || id >= metricIDCount {
		return
	}
	m.counters[id].value.Add(1)
}

// Value returns the current count for id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id < 0 || id >= metricIDCount {
		return 0
	}
	return m.counters[id].value.Load()
}

// MetricsSnapshot is a point-in-time copy of every counter, indexed by
// MetricID.
type MetricsSnapshot [metricIDCount]uint64

// Snapshot copies all counters. The copy is not atomic across counters;
// each individual value is.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var snap MetricsSnapshot
	if m == nil {
		return snap
	}
	for i := range m.counters {
		snap[i] = m.counters[i].value.Load()
	}
	return snap
}
