package scheduler

import (
	"sync"
	"time"

	"github.com/aristath/folio/internal/domain"
)

// Snapshot holds the most recent successful cycle and the last failure.
// A failed cycle never replaces the last good result.
type Snapshot struct {
	mu          sync.RWMutex
	latest      *domain.CycleResult
	lastErr     error
	lastAttempt time.Time
	cycles      int
	failures    int
}

// NewSnapshot creates an empty snapshot holder
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Store records a successful cycle
func (s *Snapshot) Store(result *domain.CycleResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = result
	s.lastErr = nil
	s.lastAttempt = result.ComputedAt
	s.cycles++
}

// Fail records a failed cycle
func (s *Snapshot) Fail(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	s.lastAttempt = at
	s.failures++
}

// Latest returns the last successful cycle, or nil before the first one completes
func (s *Snapshot) Latest() *domain.CycleResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Status summarizes the refresh history
type Status struct {
	LastCycleID string    `json:"last_cycle_id,omitempty" msgpack:"last_cycle_id,omitempty"`
	LastAttempt time.Time `json:"last_attempt" msgpack:"last_attempt"`
	LastError   string    `json:"last_error,omitempty" msgpack:"last_error,omitempty"`
	Cycles      int       `json:"cycles" msgpack:"cycles"`
	Failures    int       `json:"failures" msgpack:"failures"`
}

// Status returns the refresh history summary
func (s *Snapshot) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		LastAttempt: s.lastAttempt,
		Cycles:      s.cycles,
		Failures:    s.failures,
	}
	if s.latest != nil {
		st.LastCycleID = s.latest.ID
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}
