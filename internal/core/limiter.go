package core

// limiter.go bounds how many profiling runs execute at once.
//
// Profiling a 10 MB file holds the whole frame and its parsed columns in
// memory, so runs beyond the limit wait up to maxWait for a slot and then
// fail with ErrTooManyProfiles. WaitForDrain lets shutdown finish in-flight
// runs.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyProfiles is returned when every profiling slot stays occupied
// for the whole wait window.
var ErrTooManyProfiles = errors.New("too many profiling jobs in progress, please try again later")

// DefaultMaxConcurrentProfiles is the default number of parallel runs.
const DefaultMaxConcurrentProfiles = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// ProfileLimiter is a counting semaphore over profiling runs.
type ProfileLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewProfileLimiter creates a limiter allowing maxConcurrent simultaneous
// runs. Non-positive arguments fall back to the defaults.
func NewProfileLimiter(maxConcurrent int, maxWait time.Duration) *ProfileLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentProfiles
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &ProfileLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire blocks until a slot is free, ctx is done, or maxWait elapses.
// The caller must call Release after a nil return.
func (l *ProfileLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyProfiles
	}
}

// Release frees a slot taken by Acquire.
func (l *ProfileLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Do runs fn while holding a slot.
func (l *ProfileLimiter) Do(ctx context.Context, fn func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}

// ActiveCount returns the number of runs holding a slot.
func (l *ProfileLimiter) ActiveCount() int { return int(l.active.Load()) }

// MaxConcurrent returns the slot count.
func (l *ProfileLimiter) MaxConcurrent() int { return cap(l.slots) }

// Available returns the number of free slots.
func (l *ProfileLimiter) Available() int { return cap(l.slots) - len(l.slots) }

// WaitForDrain blocks until no run holds a slot or ctx is done.
func (l *ProfileLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// LimiterStatus is a point-in-time view of the limiter for health checks.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *ProfileLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: l.MaxConcurrent(),
	}
}
