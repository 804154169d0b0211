package poll

import (
	"context"
	"errors"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntil(t *testing.T) {
	opts := Options{Interval: 5 * time.Millisecond, Timeout: 200 * time.Millisecond}

	t.Run("Immediate Success Checks Once", func(t *testing.T) {
		calls := 0
		err := Until(context.Background(), opts, func(ctx context.Context) (bool, string, error) {
			calls++
			return true, "PAID", nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("Eventually Consistent State", func(t *testing.T) {
		calls := 0
		err := Until(context.Background(), opts, func(ctx context.Context) (bool, string, error) {
			calls++
			if calls < 3 {
				return false, "PENDING", nil
			}
			return true, "PAID", nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Errors Are Retried", func(t *testing.T) {
		calls := 0
		err := Until(context.Background(), opts, func(ctx context.Context) (bool, string, error) {
			calls++
			if calls == 1 {
				return false, "", errors.New("element detached")
			}
			return true, "", nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("Timeout Reports Last Observation", func(t *testing.T) {
		err := Until(context.Background(), Options{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}, func(ctx context.Context) (bool, string, error) {
			return false, "PENDING", nil
		})

		require.Error(t, err)
		assert.Contains(t, exceptions.MessageOf(err), "PENDING")
		assert.Equal(t, exceptions.KindTimeout, exceptions.KindOf(err))
	})

	t.Run("Blocking Condition Does Not Outlive Timeout", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		start := time.Now()
		err := Until(context.Background(), Options{Interval: 10 * time.Millisecond, Timeout: 50 * time.Millisecond}, func(ctx context.Context) (bool, string, error) {
			<-release
			return true, "PAID", nil
		})

		require.Error(t, err)
		assert.Equal(t, exceptions.KindTimeout, exceptions.KindOf(err))
		assert.Less(t, time.Since(start), 250*time.Millisecond)
	})

	t.Run("Parent Cancellation Wins", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Until(ctx, opts, func(ctx context.Context) (bool, string, error) {
			return false, "", nil
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRemaining(t *testing.T) {
	t.Run("Fallback Without Deadline", func(t *testing.T) {
		assert.Equal(t, time.Second, Remaining(context.Background(), time.Second))
	})

	t.Run("Bounded By Deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		left := Remaining(ctx, time.Hour)

		assert.Greater(t, left, time.Duration(0))
		assert.LessOrEqual(t, left, 100*time.Millisecond)
	})

	t.Run("Expired Context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
		defer cancel()

		assert.Equal(t, time.Duration(0), Remaining(ctx, time.Hour))
	})
}

func TestValue(t *testing.T) {
	statuses := []string{"PENDING", "PENDING", "PAID"}
	index := 0

	status, err := Value(context.Background(), Options{Interval: time.Millisecond, Timeout: time.Second},
		func(ctx context.Context) (string, error) {
			current := statuses[index]
			if index < len(statuses)-1 {
				index++
			}
			return current, nil
		},
		func(status string) bool { return status == "PAID" },
		func(status string) string { return status },
	)

	require.NoError(t, err)
	assert.Equal(t, "PAID", status)
}
