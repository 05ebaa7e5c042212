package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"commonfund/contexts/identity-access/principal-service/domain/entities"
	domainerrors "commonfund/contexts/identity-access/principal-service/domain/errors"

	"github.com/google/uuid"
)

// Store is the in-memory adapter behind the principal-service repositories.
// It mirrors the relational adapter's semantics, including assignment of
// ascending numeric primary keys.
type Store struct {
	mu sync.RWMutex

	users        map[int64]entities.User
	applications map[int64]entities.Application
	nextUserID   int64
	nextAppID    int64
}

func NewStore() *Store {
	return &Store{
		users:        make(map[int64]entities.User),
		applications: make(map[int64]entities.Application),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) CreateUser(_ context.Context, user entities.User) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return entities.User{}, domainerrors.ErrEmailTaken
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUser(_ context.Context, userID int64) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == strings.ToLower(strings.TrimSpace(email)) {
			return user, nil
		}
	}
	return entities.User{}, domainerrors.ErrUserNotFound
}

func (s *Store) StorePreapproval(_ context.Context, userID int64, key string, confirmed bool, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return domainerrors.ErrUserNotFound
	}
	user.PreapprovalKey = key
	user.PreapprovalConfirmed = confirmed
	user.UpdatedAt = now
	s.users[userID] = user
	return nil
}

func (s *Store) CreateApplication(_ context.Context, app entities.Application) (entities.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAppID++
	app.ID = s.nextAppID
	if app.APIKey == "" {
		app.APIKey = uuid.NewString()
	}
	s.applications[app.ID] = app
	return app, nil
}

func (s *Store) GetApplicationByKey(_ context.Context, apiKey string) (entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, app := range s.applications {
		if app.APIKey == strings.TrimSpace(apiKey) {
			return app, nil
		}
	}
	return entities.Application{}, domainerrors.ErrApplicationNotFound
}
