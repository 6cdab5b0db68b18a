package memory

import (
	"context"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
	"github.com/mufasadev/velocity-ledger/internal/domain/repositories"
	apperrors "github.com/mufasadev/velocity-ledger/internal/errors"
	"strings"
	"sync"
)

type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

var _ repositories.UserRepository = (*UserStore)(nil)

// Create stores a new user. Emails are unique regardless of case.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := normalizeEmail(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[key]; ok {
		return apperrors.NewUserAlreadyExistsError()
	}

	u := *user
	s.byID[u.ID] = &u
	s.byEmail[key] = &u
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NewUserNotFoundError()
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, apperrors.NewUserNotFoundError()
	}
	cp := *u
	return &cp, nil
}

// Delete removes the user and frees their email. Unknown ids are a no-op.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil
	}
	delete(s.byID, id)
	delete(s.byEmail, normalizeEmail(u.Email))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
