package queue

import (
	"sync/atomic"
)

// Statistics tracks queue activity. All counters are updated atomically
// and are safe to read from any goroutine.
type Statistics struct {
	reserves        atomic.Int64
	reserveFailures atomic.Int64
	commits         atomic.Int64
	bytesReserved   atomic.Int64
	bytesRead       atomic.Int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// Reserve records a successful reservation of n bytes.
func (s *Statistics) Reserve(n int64) {
	s.reserves.Add(1)
	s.bytesReserved.Add(n)
}

// ReserveFailure records a reservation rejected for lack of space.
func (s *Statistics) ReserveFailure() {
	s.reserveFailures.Add(1)
}

// Commit records a commit operation.
func (s *Statistics) Commit() {
	s.commits.Add(1)
}

// Read records n bytes released by the consumer.
func (s *Statistics) Read(n int64) {
	s.bytesRead.Add(n)
}

// Snapshot is a point-in-time copy of the statistics counters.
type Snapshot struct {
	Reserves        int64
	ReserveFailures int64
	Commits         int64
	BytesReserved   int64
	BytesRead       int64
}

// Snapshot returns a consistent-enough copy of the counters for reporting.
func (s *Statistics) Snapshot() Snapshot {
	return Snapshot{
		Reserves:        s.reserves.Load(),
		ReserveFailures: s.reserveFailures.Load(),
		Commits:         s.commits.Load(),
		BytesReserved:   s.bytesReserved.Load(),
		BytesRead:       s.bytesRead.Load(),
	}
}
