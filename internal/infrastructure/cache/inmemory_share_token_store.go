package cache

import (
	"context"
	"sync"
	"time"

	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"

	appprocurement "github.com/reponha/backend/internal/application/procurement"
)

// shareEntry is a stored share grant with its expiration
type shareEntry struct {
	tenantID  uuid.UUID
	orderID   uuid.UUID
	expiresAt time.Time
}

// InMemoryShareTokenStore keeps share tokens in a process-local map. Suitable
// for single-instance deployments and testing; tokens do not survive restarts.
type InMemoryShareTokenStore struct {
	mu        sync.RWMutex
	entries   map[string]shareEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryShareTokenStore creates an in-memory share token store and
// starts a background goroutine that drops expired tokens.
func NewInMemoryShareTokenStore() *InMemoryShareTokenStore {
	store := &InMemoryShareTokenStore{
		entries:  make(map[string]shareEntry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Issue generates an opaque token for the order and stores it with a TTL
func (s *InMemoryShareTokenStore) Issue(ctx context.Context, tenantID, orderID uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	token, err := newShareToken()
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := time.Now().Add(ttl)

	s.mu.Lock()
	s.entries[token] = shareEntry{
		tenantID:  tenantID,
		orderID:   orderID,
		expiresAt: expiresAt,
	}
	s.mu.Unlock()

	return token, expiresAt, nil
}

// Resolve returns the tenant and order a token grants access to.
// Unknown or expired tokens resolve to shared.ErrNotFound.
func (s *InMemoryShareTokenStore) Resolve(ctx context.Context, token string) (uuid.UUID, uuid.UUID, error) {
	s.mu.RLock()
	e, exists := s.entries[token]
	s.mu.RUnlock()

	if !exists || time.Now().After(e.expiresAt) {
		return uuid.Nil, uuid.Nil, shared.ErrNotFound
	}
	return e.tenantID, e.orderID, nil
}

// Revoke removes a token. Revoking an unknown token is a no-op.
func (s *InMemoryShareTokenStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryShareTokenStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored tokens (for testing/monitoring)
func (s *InMemoryShareTokenStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *InMemoryShareTokenStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryShareTokenStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, token)
		}
	}
}

// Ensure InMemoryShareTokenStore implements ShareTokenStore
var _ appprocurement.ShareTokenStore = (*InMemoryShareTokenStore)(nil)
