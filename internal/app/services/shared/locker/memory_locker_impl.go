package locker

import (
	"context"
	"fmt"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/google/uuid"
)

type heldLock struct {
	value     string
	expiresAt time.Time
}

// memoryLockService serialises lock holders inside one process. It is used
// when no Redis is configured.
type memoryLockService struct {
	mu    sync.Mutex
	locks map[string]heldLock
	now   func() time.Time
}

func NewMemoryLockService() contracts.LockerService {
	return &memoryLockService{
		locks: make(map[string]heldLock),
		now:   time.Now,
	}
}

func (s *memoryLockService) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if held, ok := s.locks[key]; ok && s.now().Before(held.expiresAt) {
		return false, "", nil
	}
	lockValue := uuid.NewString()
	s.locks[key] = heldLock{value: lockValue, expiresAt: s.now().Add(expiration)}
	return true, lockValue, nil
}

func (s *memoryLockService) Unlock(ctx context.Context, key, lockValue string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	held, ok := s.locks[key]
	if !ok || !s.now().Before(held.expiresAt) {
		delete(s.locks, key)
		return nil
	}
	if held.value != lockValue {
		return exceptions.ErrRedisUnlock(fmt.Errorf("lock not owned by this client"))
	}
	delete(s.locks, key)
	return nil
}

func (s *memoryLockService) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	held, ok := s.locks[key]
	if !ok || held.value != lockValue || !s.now().Before(held.expiresAt) {
		return exceptions.ErrRedisUnlock(fmt.Errorf("lock not owned by this client"))
	}
	held.expiresAt = s.now().Add(expiration)
	s.locks[key] = held
	return nil
}
