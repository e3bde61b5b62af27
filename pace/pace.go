package pace

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLimitExceeded is returned when a token cannot be acquired in time.
var ErrLimitExceeded = errors.New("pace: rate limit exceeded")

// Config configures a Limiter.
type Config struct {
	// Rate is the number of calls allowed per second.
	// Default: 2
	Rate float64

	// Burst is the maximum burst size.
	// Default: 1
	Burst int

	// MaxWait is the longest a caller will block for a token.
	// Default: 5 seconds
	MaxWait time.Duration
}

// Limiter is a token bucket pacing registry calls. A nil *Limiter allows
// everything.
type Limiter struct {
	config Config

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewLimiter creates a limiter, applying defaults for zero fields.
func NewLimiter(config Config) *Limiter {
	if config.Rate <= 0 {
		config.Rate = 2
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.MaxWait <= 0 {
		config.MaxWait = 5 * time.Second
	}
	return &Limiter{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// Allow reports whether a call may proceed immediately, consuming a token
// when it may.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refillLocked()
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available, the context is cancelled, or
// MaxWait elapses.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if l.Allow() {
		return nil
	}

	l.mu.Lock()
	deficit := 1 - l.tokens
	delay := time.Duration(deficit / l.config.Rate * float64(time.Second))
	l.mu.Unlock()

	if delay > l.config.MaxWait {
		delay = l.config.MaxWait
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		if l.Allow() {
			return nil
		}
		return ErrLimitExceeded
	}
}

func (l *Limiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill)
	l.lastRefill = now

	l.tokens += elapsed.Seconds() * l.config.Rate
	if l.tokens > float64(l.config.Burst) {
		l.tokens = float64(l.config.Burst)
	}
}
