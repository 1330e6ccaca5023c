// Package perfmon implements the Performance Monitor (C11): scoped timers
// and counters that log a warning when an operation exceeds a configured
// threshold, grounded on original_source/vaitp_auditor/utils/performance.py's
// per-operation timing and rolling memory-delta sampling.
package perfmon

import (
	"sync"
	"time"

	"github.com/netpack/vaitp-auditor-go/internal/logging"
)

// Monitor tracks named operation timings and counters for one subsystem.
type Monitor struct {
	log        *logging.Logger
	thresholds map[string]time.Duration

	mu       sync.Mutex
	counters map[string]int64
}

// New builds a Monitor whose warnings are logged under category.
func New(category string) *Monitor {
	return &Monitor{
		log:        logging.Get(category),
		thresholds: make(map[string]time.Duration),
		counters:   make(map[string]int64),
	}
}

// SetThreshold configures the duration above which Stop logs a warning
// for operation.
func (m *Monitor) SetThreshold(operation string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thresholds[operation] = d
}

// Scoped is an in-flight timed operation.
type Scoped struct {
	m         *Monitor
	operation string
	start     time.Time
}

// Start begins timing operation.
func (m *Monitor) Start(operation string) *Scoped {
	return &Scoped{m: m, operation: operation, start: time.Now()}
}

// Stop ends the timed operation, incrementing its counter and logging a
// warning if it exceeded the configured threshold.
func (s *Scoped) Stop() time.Duration {
	elapsed := time.Since(s.start)
	s.m.mu.Lock()
	s.m.counters[s.operation]++
	threshold, hasThreshold := s.m.thresholds[s.operation]
	s.m.mu.Unlock()

	s.m.log.Debug("%s completed in %s", s.operation, elapsed)
	if hasThreshold && elapsed > threshold {
		s.m.log.Warn("%s exceeded threshold: %s > %s", s.operation, elapsed, threshold)
	}
	return elapsed
}

// Count returns how many times operation has been scoped.
func (m *Monitor) Count(operation string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[operation]
}

// Reset clears all counters.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = make(map[string]int64)
}
