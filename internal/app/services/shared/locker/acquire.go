package locker

import (
	"context"
	"openmrs-billing-e2e/internal/app/contracts"
	"time"
)

// Acquire retries TryLock every interval until it succeeds or ctx ends, and
// returns the release function.
func Acquire(ctx context.Context, locker contracts.LockerService, key string, expiration, interval time.Duration) (func(context.Context) error, error) {
	for {
		acquired, lockValue, err := locker.TryLock(ctx, key, expiration)
		if err != nil {
			return nil, err
		}
		if acquired {
			return func(ctx context.Context) error {
				return locker.Unlock(ctx, key, lockValue)
			}, nil
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
