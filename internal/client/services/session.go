package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/client/storage"
	"github.com/dmitrijs2005/gophvault/internal/common"
)

// SessionState is either anonymous or authenticated.
type SessionState string

const (
	StateAnonymous     SessionState = "anonymous"
	StateAuthenticated SessionState = "authenticated"
)

// LocalUserID is the id every local profile gets.
const LocalUserID = "1"

// SessionStore owns the local user profile.
//
// There is no credential check: Login and Signup accept anything and only
// fail when the profile cannot be persisted. The password argument is
// ignored and never stored.
type SessionStore interface {
	Login(ctx context.Context, email, password string) (models.UserProfile, error)
	Signup(ctx context.Context, email, password, name string) (models.UserProfile, error)
	// Logout forgets the profile. Vault content is left in place.
	Logout(ctx context.Context) error
	// UpdateProfile merges u into the profile; it does nothing when anonymous.
	UpdateProfile(ctx context.Context, u models.ProfileUpdate) error

	Profile() (models.UserProfile, bool)
	IsAuthenticated() bool
	State() SessionState

	Dispose()
}

type sessionStore struct {
	mu       sync.RWMutex
	adapter  *storage.Adapter
	opts     options
	user     *models.UserProfile
	disposed bool
}

// NewSessionStore restores the persisted profile, if any.
func NewSessionStore(ctx context.Context, adapter *storage.Adapter, opts ...Option) (SessionStore, error) {
	s := &sessionStore{adapter: adapter, opts: newOptions(opts)}

	user, err := adapter.LoadProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	s.user = user

	s.opts.log.Info(ctx, "session loaded", "state", string(s.state()))
	return s, nil
}

// NameFromEmail returns the part of email before the first '@', or the whole
// string when there is none.
func NameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func (s *sessionStore) Login(ctx context.Context, email, _ string) (models.UserProfile, error) {
	return s.start(ctx, email, NameFromEmail(email))
}

func (s *sessionStore) Signup(ctx context.Context, email, _, name string) (models.UserProfile, error) {
	return s.start(ctx, email, name)
}

func (s *sessionStore) start(ctx context.Context, email, name string) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return models.UserProfile{}, common.ErrStoreDisposed
	}

	user := models.UserProfile{
		ID:        LocalUserID,
		Email:     email,
		Name:      name,
		CreatedAt: s.opts.now(),
	}
	if err := s.adapter.Save(ctx, storage.KeyUser, user); err != nil {
		return models.UserProfile{}, fmt.Errorf("save profile: %w", err)
	}
	s.user = &user

	s.opts.log.Info(ctx, "signed in", "email", email)
	return user, nil
}

func (s *sessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return common.ErrStoreDisposed
	}

	if err := s.adapter.Remove(ctx, storage.KeyUser); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.user = nil

	s.opts.log.Info(ctx, "signed out")
	return nil
}

func (s *sessionStore) UpdateProfile(ctx context.Context, u models.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return common.ErrStoreDisposed
	}
	if s.user == nil {
		return nil
	}

	updated := u.Apply(*s.user)
	if err := s.adapter.Save(ctx, storage.KeyUser, updated); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	s.user = &updated
	return nil
}

func (s *sessionStore) Profile() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.UserProfile{}, false
	}
	return *s.user, true
}

func (s *sessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *sessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state()
}

func (s *sessionStore) state() SessionState {
	if s.user == nil {
		return StateAnonymous
	}
	return StateAuthenticated
}

func (s *sessionStore) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
}

var _ SessionStore = (*sessionStore)(nil)
