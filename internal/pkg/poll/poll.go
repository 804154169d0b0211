package poll

import (
	"context"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"sync"
	"time"
)

const (
	DefaultInterval = 250 * time.Millisecond
	DefaultTimeout  = 10 * time.Second
)

type Options struct {
	Interval time.Duration
	Timeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Condition reports whether the awaited state holds and what it saw. An error
// counts as "not yet" and is kept for the timeout report.
type Condition func(ctx context.Context) (bool, string, error)

// Until re-checks condition every Interval until it holds or Timeout elapses.
// The first check happens immediately. A check still running when Timeout
// elapses is abandoned, so conditions that ignore ctx cannot stretch the
// budget. Only observation is retried here; callers must not wrap mutations
// in Until.
func Until(ctx context.Context, opts Options, condition Condition) error {
	opts = opts.withDefaults()
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var (
		observed string
		lastErr  error
	)
	expired := func() error {
		if parent.Err() != nil {
			return parent.Err()
		}
		return exceptions.ErrPollTimeout(lastErr, opts.Timeout, observed)
	}

	for {
		if ctx.Err() != nil {
			return expired()
		}

		attempt := make(chan result, 1)
		go func() {
			ok, current, err := condition(ctx)
			attempt <- result{ok: ok, observed: current, err: err}
		}()

		select {
		case <-ctx.Done():
			return expired()
		case r := <-attempt:
			if r.err == nil && r.ok {
				return nil
			}
			observed, lastErr = r.observed, r.err
		}

		timer := time.NewTimer(opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return expired()
		case <-timer.C:
		}
	}
}

type result struct {
	ok       bool
	observed string
	err      error
}

// Remaining is the time left before ctx expires, or fallback when ctx has no
// deadline.
func Remaining(ctx context.Context, fallback time.Duration) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return fallback
	}
	if left := time.Until(deadline); left > 0 {
		return left
	}
	return 0
}

// Value polls fetch until accept approves the result and returns the last
// value seen, also on timeout.
func Value[T any](ctx context.Context, opts Options, fetch func(ctx context.Context) (T, error), accept func(T) bool, describe func(T) string) (T, error) {
	var (
		mu   sync.Mutex
		last T
	)
	err := Until(ctx, opts, func(ctx context.Context) (bool, string, error) {
		value, err := fetch(ctx)
		if err != nil {
			return false, "", err
		}
		mu.Lock()
		last = value
		mu.Unlock()
		return accept(value), describe(value), nil
	})
	mu.Lock()
	defer mu.Unlock()
	return last, err
}
