package service

import (
	"sync"
	"time"
)

const (
	breakerFailureThreshold = 5
	breakerCoolDown         = 10 * time.Second
)

// CircuitBreaker guards one external dependency. After failureThreshold
// consecutive failures it opens and calls fail fast; once coolDown has
// elapsed since the last failure, the next Allow closes it again and the
// call proceeds normally. One instance is shared by every request hitting
// the same dependency, so a struggling service gets fleet-wide relief.
type CircuitBreaker struct {
	mu               sync.Mutex
	failureThreshold int
	coolDown         time.Duration
	failures         int
	lastFailureAt    time.Time
	open             bool
	now              func() time.Time // injectable for tests
}

// NewCircuitBreaker creates a closed breaker with the given thresholds.
// Non-positive arguments fall back to the defaults (5 failures, 10s).
func NewCircuitBreaker(failureThreshold int, coolDown time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = breakerFailureThreshold
	}
	if coolDown <= 0 {
		coolDown = breakerCoolDown
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		coolDown:         coolDown,
		now:              time.Now,
	}
}

// Allow reports whether a call may proceed. An open breaker whose cool-down
// has elapsed resets to closed and allows the call regardless of prior state.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.open {
		return true
	}
	if cb.now().Sub(cb.lastFailureAt) > cb.coolDown {
		cb.open = false
		cb.failures = 0
		return true
	}
	return false
}

// RecordSuccess resets the consecutive-failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.open = false
}

// RecordFailure increments the consecutive-failure count and opens the
// breaker once the threshold is reached.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++
	cb.lastFailureAt = cb.now()
	if cb.failures >= cb.failureThreshold {
		cb.open = true
	}
}

// IsOpen reports the current breaker state without side effects.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.open
}
