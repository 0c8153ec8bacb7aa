package repository

import (
	"context"
	"sync"
	"time"

	"github.com/StrayFurther/TimeTrack/internal/model"
)

// InMemUserStore is a map-backed user store with the same error contract as
// UserRepository. It backs tests and local development without a database.
type InMemUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
	nextID  int64
}

// NewInMemUserStore creates an empty in-memory store.
func NewInMemUserStore() *InMemUserStore {
	return &InMemUserStore{byEmail: make(map[string]*model.User), nextID: 1}
}

func (s *InMemUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return ErrDuplicateEmail
	}

	user.ID = s.nextID
	s.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	cp := *user
	s.byEmail[user.Email] = &cp
	return nil
}

func (s *InMemUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *InMemUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.byEmail[email]
	return ok, nil
}

func (s *InMemUserStore) Update(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for email, u := range s.byEmail {
		if u.ID == user.ID {
			delete(s.byEmail, email)
			user.UpdatedAt = time.Now()
			cp := *user
			s.byEmail[user.Email] = &cp
			return nil
		}
	}
	return ErrUserNotFound
}
