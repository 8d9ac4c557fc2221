package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"gatelog/internal/gatelog/store"
)

// AuthorizationStore is an in-memory allow-list for tests and dev
// environments.
type AuthorizationStore struct {
	mu      sync.RWMutex
	entries map[string]string // uid -> username
	err     error             // when set, every method fails with it
}

func NewAuthorizationStore() *AuthorizationStore {
	return &AuthorizationStore{entries: make(map[string]string)}
}

// FailWith makes every subsequent call return err.  Test-only helper for
// exercising the fail-closed lookup path.
func (s *AuthorizationStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *AuthorizationStore) Lookup(_ context.Context, uid string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return "", false, s.err
	}
	username, ok := s.entries[uid]
	return username, ok, nil
}

func (s *AuthorizationStore) List(_ context.Context) ([]store.AuthorizationEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]store.AuthorizationEntry, 0, len(s.entries))
	for uid, username := range s.entries {
		out = append(out, store.AuthorizationEntry{UID: uid, Username: username})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *AuthorizationStore) Put(_ context.Context, uid, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, exists := s.entries[uid]; exists {
		return nil
	}
	s.entries[uid] = username
	return nil
}

func (s *AuthorizationStore) Rename(_ context.Context, uid, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, exists := s.entries[uid]; !exists {
		return errors.New("no such uid")
	}
	s.entries[uid] = username
	return nil
}

func (s *AuthorizationStore) Delete(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.entries, uid)
	return nil
}
