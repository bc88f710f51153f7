package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"automl-platform-service/internal/core/domain"
	"automl-platform-service/internal/core/ports/output"
)

// UserService maintains the user registry. Identities come from the
// caller's auth layer; this service only records them.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Init registers a user on first contact. Re-initializing an existing user
// refreshes contact info instead of failing.
func (s *UserService) Init(ctx context.Context, userID, email, name string) (*domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id cannot be empty", domain.ErrValidation)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}

	now := time.Now().UTC()
	user := &domain.User{
		UserID:    userID,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Insert(ctx, user)
	if err == nil {
		log.WithField("user_id", userID).Info("user initialized")
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserExists) {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	existing.Email = email
	existing.Name = name
	existing.UpdatedAt = now
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}
