package session

import (
	"context"
	"sync"

	"shelfsmart/internal/models"
)

// Session is the explicit credential context handed to every view. It
// caches what the Store holds so that Token never blocks on I/O.
type Session struct {
	store Store

	mu      sync.RWMutex
	token   string
	profile models.UserProfile
}

func New(store Store) *Session {
	return &Session{store: store, profile: models.PlaceholderProfile()}
}

// Restore loads persisted data, if any.
func (s *Session) Restore(ctx context.Context) error {
	data, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if data == nil {
		s.token, s.profile = "", models.PlaceholderProfile()
		return nil
	}
	s.token, s.profile = data.Token, data.Profile
	return nil
}

// Save persists a new credential and profile.
func (s *Session) Save(ctx context.Context, token string, profile models.UserProfile) error {
	if err := s.store.Save(ctx, Data{Token: token, Profile: profile}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.profile = token, profile
	return nil
}

// Clear forgets the credential locally even when the store fails.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token, s.profile = "", models.PlaceholderProfile()
	s.mu.Unlock()
	return s.store.Clear(ctx)
}

// Token implements client.Credentials.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Profile() models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
