package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"automl-platform-service/internal/core/domain"
	"automl-platform-service/internal/testutil"
)

func TestUserService_Init(t *testing.T) {
	repo := new(testutil.MockUserRepo)
	svc := NewUserService(repo)

	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Init(context.Background(), " alice ", "Alice@Example.COM", "Alice")
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.UserID)
	assert.Equal(t, "alice@example.com", user.Email)
	repo.AssertExpectations(t)
}

func TestUserService_Init_RefreshesExistingUser(t *testing.T) {
	repo := new(testutil.MockUserRepo)
	svc := NewUserService(repo)

	existing := &domain.User{UserID: "alice", Email: "old@example.com", Name: "Old Name"}
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.User")).Return(domain.ErrUserExists)
	repo.On("Get", mock.Anything, "alice").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Init(context.Background(), "alice", "new@example.com", "New Name")
	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "New Name", user.Name)
	repo.AssertExpectations(t)
}

func TestUserService_Init_Validation(t *testing.T) {
	svc := NewUserService(new(testutil.MockUserRepo))

	_, err := svc.Init(context.Background(), "  ", "a@b.com", "x")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Init(context.Background(), "alice", "not-an-email", "x")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
