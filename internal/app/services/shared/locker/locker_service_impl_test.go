package locker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRedisRepository struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedisRepository() *fakeRedisRepository {
	return &fakeRedisRepository{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedisRepository) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

func (f *fakeRedisRepository) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

func (f *fakeRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	f.values[key] = string(encoded)
	f.ttls[key] = exp
	return true, nil
}

func (f *fakeRedisRepository) Expire(ctx context.Context, key string, exp time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ttls[key] = exp
	return true, nil
}

func TestLockService(t *testing.T) {
	ctx := context.Background()

	t.Run("Second Holder Is Refused", func(t *testing.T) {
		service := NewLockService(newFakeRedisRepository(), zap.NewNop())

		acquired, lockValue, err := service.TryLock(ctx, "price:s-1", time.Minute)
		require.NoError(t, err)
		require.True(t, acquired)
		assert.NotEmpty(t, lockValue)

		acquired, _, err = service.TryLock(ctx, "price:s-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("Only Owner Unlocks", func(t *testing.T) {
		repo := newFakeRedisRepository()
		service := NewLockService(repo, zap.NewNop())
		_, lockValue, err := service.TryLock(ctx, "suite:x", time.Minute)
		require.NoError(t, err)

		assert.Error(t, service.Unlock(ctx, "suite:x", "someone-else"))
		require.NoError(t, service.Unlock(ctx, "suite:x", lockValue))

		acquired, _, err := service.TryLock(ctx, "suite:x", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("Unlock Of Missing Key Is A No Op", func(t *testing.T) {
		service := NewLockService(newFakeRedisRepository(), zap.NewNop())
		assert.NoError(t, service.Unlock(ctx, "missing", "v"))
	})

	t.Run("Refresh Extends Owned Lock", func(t *testing.T) {
		repo := newFakeRedisRepository()
		service := NewLockService(repo, zap.NewNop())
		_, lockValue, err := service.TryLock(ctx, "k", time.Second)
		require.NoError(t, err)

		require.NoError(t, service.Refresh(ctx, "k", lockValue, time.Hour))
		assert.Equal(t, time.Hour, repo.ttls["k"])
		assert.Error(t, service.Refresh(ctx, "k", "other", time.Hour))
	})
}

func TestMemoryLockService(t *testing.T) {
	ctx := context.Background()

	t.Run("Expired Lock Can Be Taken", func(t *testing.T) {
		now := time.Now()
		service := &memoryLockService{locks: make(map[string]heldLock), now: func() time.Time { return now }}

		acquired, _, _ := service.TryLock(ctx, "k", time.Second)
		require.True(t, acquired)
		acquired, _, _ = service.TryLock(ctx, "k", time.Second)
		assert.False(t, acquired)

		now = now.Add(2 * time.Second)
		acquired, _, _ = service.TryLock(ctx, "k", time.Second)
		assert.True(t, acquired)
	})

	t.Run("Wrong Value Cannot Unlock", func(t *testing.T) {
		service := NewMemoryLockService()
		_, lockValue, _ := service.TryLock(ctx, "k", time.Minute)

		assert.Error(t, service.Unlock(ctx, "k", "nope"))
		assert.NoError(t, service.Unlock(ctx, "k", lockValue))
	})
}

func TestAcquire(t *testing.T) {
	t.Run("Waits For Release", func(t *testing.T) {
		service := NewMemoryLockService()
		release, err := Acquire(context.Background(), service, "k", time.Minute, 5*time.Millisecond)
		require.NoError(t, err)

		go func() {
			time.Sleep(20 * time.Millisecond)
			_ = release(context.Background())
		}()

		second, err := Acquire(context.Background(), service, "k", time.Minute, 5*time.Millisecond)
		require.NoError(t, err)
		assert.NoError(t, second(context.Background()))
	})

	t.Run("Gives Up When Context Ends", func(t *testing.T) {
		service := NewMemoryLockService()
		_, _, _ = service.TryLock(context.Background(), "k", time.Minute)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := Acquire(ctx, service, "k", time.Minute, 5*time.Millisecond)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
