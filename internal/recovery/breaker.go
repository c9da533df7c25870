package recovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrCircuitOpen is returned without calling the backend while the breaker is open.
var ErrCircuitOpen = errors.New("recovery cache circuit open")

// BreakerState represents the state of the circuit breaker.
type BreakerState int

const (
	// BreakerClosed passes calls through.
	BreakerClosed BreakerState = iota

	// BreakerOpen rejects calls immediately.
	BreakerOpen

	// BreakerHalfOpen lets trial calls through to check whether the backend recovered.
	BreakerHalfOpen
)

// String returns the string representation of the breaker state.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds configuration for the circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening the circuit.
	MaxFailures int

	// ResetTimeout is how long the circuit stays open before trial calls are allowed.
	ResetTimeout time.Duration

	// HalfOpenSuccesses is the number of successful trial calls that close the circuit.
	HalfOpenSuccesses int
}

// DefaultBreakerConfig returns the default circuit breaker configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:       5,
		ResetTimeout:      30 * time.Second,
		HalfOpenSuccesses: 3,
	}
}

// BreakerCache guards a remote Cache with a circuit breaker so a failing
// backend fails fact handling fast instead of timing out on every call.
type BreakerCache struct {
	next   Cache
	config BreakerConfig
	logger zerolog.Logger
	now    func() time.Time

	mu          sync.Mutex
	state       BreakerState
	failures    int
	successes   int
	lastFailure time.Time
}

// NewBreakerCache wraps next with a circuit breaker.
func NewBreakerCache(next Cache, config BreakerConfig, logger zerolog.Logger) *BreakerCache {
	if config.MaxFailures <= 0 {
		config.MaxFailures = DefaultBreakerConfig().MaxFailures
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = DefaultBreakerConfig().ResetTimeout
	}
	if config.HalfOpenSuccesses <= 0 {
		config.HalfOpenSuccesses = DefaultBreakerConfig().HalfOpenSuccesses
	}
	return &BreakerCache{
		next:   next,
		config: config,
		logger: logger.With().Str("component", "recovery_breaker").Logger(),
		now:    time.Now,
		state:  BreakerClosed,
	}
}

func (b *BreakerCache) Set(ctx context.Context, key string, value []byte) error {
	if !b.allow() {
		return ErrCircuitOpen
	}
	err := b.next.Set(ctx, key, value)
	b.record(err)
	return err
}

func (b *BreakerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !b.allow() {
		return nil, false, ErrCircuitOpen
	}
	value, found, err := b.next.Get(ctx, key)
	b.record(err)
	return value, found, err
}

func (b *BreakerCache) RemoveAndReturn(ctx context.Context, key string) ([]byte, bool, error) {
	if !b.allow() {
		return nil, false, ErrCircuitOpen
	}
	value, found, err := b.next.RemoveAndReturn(ctx, key)
	b.record(err)
	return value, found, err
}

// Ping checks the wrapped backend when it supports it. Ping results do not
// move the breaker.
func (b *BreakerCache) Ping(ctx context.Context) error {
	if p, ok := b.next.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// State returns the current state of the breaker.
func (b *BreakerCache) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset closes the breaker.
func (b *BreakerCache) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transitionTo(BreakerClosed)
	b.logger.Info().Msg("Circuit breaker manually reset to closed state")
}

func (b *BreakerCache) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		if b.now().Sub(b.lastFailure) >= b.config.ResetTimeout {
			b.transitionTo(BreakerHalfOpen)
			b.logger.Info().Msg("Circuit breaker transitioning to half-open")
			return true
		}
		return false
	case BreakerHalfOpen:
		return b.successes < b.config.HalfOpenSuccesses
	default:
		return false
	}
}

func (b *BreakerCache) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		switch b.state {
		case BreakerClosed:
			b.failures = 0
		case BreakerHalfOpen:
			b.successes++
			if b.successes >= b.config.HalfOpenSuccesses {
				b.transitionTo(BreakerClosed)
				b.logger.Info().Msg("Circuit breaker closing after successful recovery")
			}
		}
		return
	}

	b.failures++
	b.lastFailure = b.now()
	switch b.state {
	case BreakerClosed:
		if b.failures >= b.config.MaxFailures {
			b.transitionTo(BreakerOpen)
			b.logger.Warn().
				Err(err).
				Int("failure_count", b.failures).
				Dur("reset_timeout", b.config.ResetTimeout).
				Msg("Circuit breaker opening after max failures")
		}
	case BreakerHalfOpen:
		b.transitionTo(BreakerOpen)
		b.logger.Warn().Err(err).Msg("Circuit breaker re-opening after failure in half-open state")
	}
}

// transitionTo must be called with mu held.
func (b *BreakerCache) transitionTo(state BreakerState) {
	b.state = state
	b.successes = 0
	if state == BreakerClosed {
		b.failures = 0
	}
}
