package agentgraph

import "github.com/flowmind/agentgraph/resilience"

// Re-exported resilience primitives: the retry helper the executor uses
// internally, and the circuit breaker offered as a separate, optional
// guard callers can wrap around a flaky agent's own Call.
type (
	Sleep                = resilience.Sleep
	CircuitBreaker       = resilience.CircuitBreaker
	CircuitBreakerConfig = resilience.CircuitBreakerConfig
	CircuitState         = resilience.CircuitState
)

const (
	StateClosed   = resilience.StateClosed
	StateOpen     = resilience.StateOpen
	StateHalfOpen = resilience.StateHalfOpen
)

var (
	Backoff           = resilience.Backoff
	RealSleep         = resilience.RealSleep
	NewCircuitBreaker = resilience.NewCircuitBreaker
	ErrCircuitOpen    = resilience.ErrCircuitOpen
)
