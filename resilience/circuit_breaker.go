package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flowmind/agentgraph/core"
)

// CircuitState is the state of a CircuitBreaker.
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when a CircuitBreaker rejects a call because
// it is currently open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig configures a CircuitBreaker. This is an optional
// guard the caller composes around an agent's Call independently of the
// executor's own per-step retry policy — the core scheduler never
// constructs or wires one itself.
type CircuitBreakerConfig struct {
	Name             string
	ErrorThreshold   float64       // error rate (0..1) that trips the breaker
	VolumeThreshold  int           // minimum requests in the window before evaluating
	SleepWindow      time.Duration // how long to stay open before probing half-open
	HalfOpenRequests int           // test requests allowed while half-open
	SuccessThreshold float64       // success rate in half-open needed to close
	WindowSize       time.Duration
	BucketCount      int
	Logger           core.Logger
}

func (c *CircuitBreakerConfig) withDefaults() *CircuitBreakerConfig {
	cfg := *c
	if cfg.WindowSize == 0 {
		cfg.WindowSize = 60 * time.Second
	}
	if cfg.BucketCount == 0 {
		cfg.BucketCount = 10
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = 5
	}
	if cfg.SuccessThreshold == 0 {
		cfg.SuccessThreshold = 0.6
	}
	if cfg.Logger == nil {
		cfg.Logger = core.NoOpLogger{}
	}
	return &cfg
}

// CircuitBreaker is a sliding-window error-rate breaker: closed allows
// everything through, open rejects everything until SleepWindow has
// elapsed, half-open allows a limited number of probe requests and decides
// whether to close or reopen based on their success rate. Adapted from the
// teacher's github.com/itsneelabh/gomind resilience/circuit_breaker.go,
// trimmed of its metrics-collector and legacy-alias surface since this
// package has no metrics pipeline of its own to report into.
type CircuitBreaker struct {
	config *CircuitBreakerConfig

	mu             sync.Mutex
	state          CircuitState
	stateChangedAt time.Time

	window *slidingWindow

	halfOpenTotal     int
	halfOpenSuccesses int
	halfOpenFailures  int
}

// NewCircuitBreaker constructs a breaker in the closed state.
func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	cfg := config.withDefaults()
	return &CircuitBreaker{
		config:         cfg,
		state:          StateClosed,
		stateChangedAt: time.Now(),
		window:         newSlidingWindow(cfg.WindowSize, cfg.BucketCount),
	}
}

// Execute runs fn if the breaker allows it, and records the outcome.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if !cb.allow() {
		return fmt.Errorf("%s: %w", cb.config.Name, ErrCircuitOpen)
	}

	err := fn()
	cb.recordResult(err)
	return err
}

// State returns the breaker's current state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(cb.stateChangedAt) > cb.config.SleepWindow {
			cb.transitionLocked(StateHalfOpen)
			return cb.allowHalfOpenLocked()
		}
		return false
	case StateHalfOpen:
		return cb.allowHalfOpenLocked()
	default:
		return false
	}
}

func (cb *CircuitBreaker) allowHalfOpenLocked() bool {
	if cb.halfOpenTotal >= cb.config.HalfOpenRequests {
		return false
	}
	cb.halfOpenTotal++
	return true
}

func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	wasHalfOpen := cb.state == StateHalfOpen

	if err == nil {
		cb.window.recordSuccess()
		if wasHalfOpen {
			cb.halfOpenSuccesses++
		}
	} else {
		cb.window.recordFailure()
		if wasHalfOpen {
			cb.halfOpenFailures++
		}
	}

	cb.evaluateLocked()
}

func (cb *CircuitBreaker) evaluateLocked() {
	switch cb.state {
	case StateClosed:
		errorRate := cb.window.errorRate()
		total := cb.window.total()
		if total >= uint64(cb.config.VolumeThreshold) && errorRate >= cb.config.ErrorThreshold {
			cb.config.Logger.Warn("circuit breaker opening", map[string]interface{}{
				"name":       cb.config.Name,
				"error_rate": errorRate,
			})
			cb.transitionLocked(StateOpen)
		}
	case StateHalfOpen:
		total := cb.halfOpenSuccesses + cb.halfOpenFailures
		if total >= cb.config.HalfOpenRequests {
			successRate := float64(cb.halfOpenSuccesses) / float64(total)
			if successRate >= cb.config.SuccessThreshold {
				cb.transitionLocked(StateClosed)
			} else {
				cb.transitionLocked(StateOpen)
			}
		}
	}
}

func (cb *CircuitBreaker) transitionLocked(to CircuitState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.stateChangedAt = time.Now()
	if to == StateHalfOpen {
		cb.halfOpenTotal = 0
		cb.halfOpenSuccesses = 0
		cb.halfOpenFailures = 0
	}
	cb.config.Logger.Info("circuit breaker state change", map[string]interface{}{
		"name": cb.config.Name,
		"from": from.String(),
		"to":   to.String(),
	})
}

// bucket is one time slice of the sliding window.
type bucket struct {
	timestamp time.Time
	success   uint64
	failure   uint64
}

// slidingWindow tracks success/failure counts over a rolling time window,
// split into fixed buckets that age out independently.
type slidingWindow struct {
	mu         sync.Mutex
	buckets    []bucket
	windowSize time.Duration
	bucketSize time.Duration
	current    int
	lastRotate time.Time
}

func newSlidingWindow(windowSize time.Duration, bucketCount int) *slidingWindow {
	now := time.Now()
	buckets := make([]bucket, bucketCount)
	for i := range buckets {
		buckets[i].timestamp = now
	}
	return &slidingWindow{
		buckets:    buckets,
		windowSize: windowSize,
		bucketSize: windowSize / time.Duration(bucketCount),
		lastRotate: now,
	}
}

func (w *slidingWindow) rotate() {
	now := time.Now()
	elapsed := now.Sub(w.lastRotate)
	if elapsed < w.bucketSize {
		return
	}
	steps := int(elapsed / w.bucketSize)
	if steps > len(w.buckets) {
		steps = len(w.buckets)
	}
	for i := 0; i < steps; i++ {
		w.current = (w.current + 1) % len(w.buckets)
		w.buckets[w.current] = bucket{timestamp: now}
	}
	w.lastRotate = now
}

func (w *slidingWindow) recordSuccess() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rotate()
	atomic.AddUint64(&w.buckets[w.current].success, 1)
}

func (w *slidingWindow) recordFailure() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rotate()
	atomic.AddUint64(&w.buckets[w.current].failure, 1)
}

func (w *slidingWindow) counts() (success, failure uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	cutoff := time.Now().Add(-w.windowSize)
	for i := range w.buckets {
		if w.buckets[i].timestamp.After(cutoff) {
			success += w.buckets[i].success
			failure += w.buckets[i].failure
		}
	}
	return success, failure
}

func (w *slidingWindow) total() uint64 {
	s, f := w.counts()
	return s + f
}

func (w *slidingWindow) errorRate() float64 {
	s, f := w.counts()
	total := s + f
	if total == 0 {
		return 0
	}
	return float64(f) / float64(total)
}
