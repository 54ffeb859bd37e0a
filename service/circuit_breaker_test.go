package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(5, 10*time.Second)

	for i := 0; i < 4; i++ {
		cb.RecordFailure()
		assert.False(t, cb.IsOpen(), "breaker must stay closed below the threshold")
		assert.True(t, cb.Allow())
	}

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())
	assert.False(t, cb.Allow(), "open breaker must fail fast")
}

func TestCircuitBreakerSuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(5, 10*time.Second)

	for i := 0; i < 4; i++ {
		cb.RecordFailure()
	}
	cb.RecordSuccess()

	// count restarted: four more failures must not open it
	for i := 0; i < 4; i++ {
		cb.RecordFailure()
	}
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreakerCoolDownReset(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(2, 10*time.Second)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.Allow())

	// still within cool-down
	now = now.Add(9 * time.Second)
	assert.False(t, cb.Allow())

	// cool-down elapsed: next attempt closes the breaker again
	now = now.Add(2 * time.Second)
	assert.True(t, cb.Allow())
	assert.False(t, cb.IsOpen())

	// and the failure count started over
	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreakerDefaultThresholds(t *testing.T) {
	cb := NewCircuitBreaker(0, 0)
	assert.Equal(t, breakerFailureThreshold, cb.failureThreshold)
	assert.Equal(t, breakerCoolDown, cb.coolDown)
}
