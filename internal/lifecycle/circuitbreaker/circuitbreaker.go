// Package circuitbreaker guards the pay phase against banks whose service
// endpoints are failing. Verify/settle calls are never guarded: once money
// may have moved, the chain must be allowed to run.
package circuitbreaker

import (
	"sync"
	"time"
)

// State of a bank's circuit.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

const (
	defaultFailureThreshold         = 5
	defaultOpenStateTimeout         = 30 * time.Second
	defaultHalfOpenSuccessThreshold = 2
)

type bankState struct {
	state                State
	consecutiveFailures  int
	consecutiveSuccesses int
	lastFailureTime      time.Time
	openUntil            time.Time
}

// CircuitBreaker tracks per-bank health in memory.
type CircuitBreaker struct {
	mu                       sync.RWMutex
	banks                    map[string]*bankState
	failureThreshold         int
	openStateTimeout         time.Duration
	halfOpenSuccessThreshold int
}

// New creates a CircuitBreaker with default settings.
func New() *CircuitBreaker {
	return NewWithSettings(defaultFailureThreshold, defaultOpenStateTimeout, defaultHalfOpenSuccessThreshold)
}

// NewWithSettings creates a CircuitBreaker with custom settings.
func NewWithSettings(failThreshold int, openTimeout time.Duration, halfOpenSuccess int) *CircuitBreaker {
	return &CircuitBreaker{
		banks:                    make(map[string]*bankState),
		failureThreshold:         failThreshold,
		openStateTimeout:         openTimeout,
		halfOpenSuccessThreshold: halfOpenSuccess,
	}
}

// caller must hold the write lock.
func (cb *CircuitBreaker) getBankState(bankName string) *bankState {
	bs, exists := cb.banks[bankName]
	if !exists {
		bs = &bankState{state: Closed}
		cb.banks[bankName] = bs
	}
	return bs
}

// IsHealthy reports whether pay calls are allowed for the bank. An expired
// Open circuit transitions to HalfOpen here.
func (cb *CircuitBreaker) IsHealthy(bankName string) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	bs := cb.getBankState(bankName)
	switch bs.state {
	case Closed:
		return true
	case Open:
		if time.Now().After(bs.openUntil) {
			bs.state = HalfOpen
			bs.consecutiveSuccesses = 0
			return true
		}
		return false
	case HalfOpen:
		return true
	default:
		bs.state = Closed
		return true
	}
}

// RecordFailure records a failed pay call.
func (cb *CircuitBreaker) RecordFailure(bankName string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	bs := cb.getBankState(bankName)
	bs.lastFailureTime = time.Now()

	switch bs.state {
	case Closed:
		bs.consecutiveFailures++
		if bs.consecutiveFailures >= cb.failureThreshold {
			bs.state = Open
			bs.openUntil = time.Now().Add(cb.openStateTimeout)
		}
	case HalfOpen:
		bs.state = Open
		bs.openUntil = time.Now().Add(cb.openStateTimeout)
		bs.consecutiveFailures = 0
		bs.consecutiveSuccesses = 0
	case Open:
		return
	}
}

// RecordSuccess records a successful pay call.
func (cb *CircuitBreaker) RecordSuccess(bankName string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	bs := cb.getBankState(bankName)
	switch bs.state {
	case Closed:
		bs.consecutiveFailures = 0
	case HalfOpen:
		bs.consecutiveSuccesses++
		if bs.consecutiveSuccesses >= cb.halfOpenSuccessThreshold {
			bs.state = Closed
			bs.consecutiveFailures = 0
			bs.consecutiveSuccesses = 0
		}
	case Open:
		return
	}
}

// GetState returns the bank's circuit state without transitioning it.
func (cb *CircuitBreaker) GetState(bankName string) State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	bs, exists := cb.banks[bankName]
	if !exists {
		return Closed
	}
	return bs.state
}
