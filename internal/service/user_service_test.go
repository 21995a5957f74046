package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
)

type mockUserRepo struct {
	items      map[string]*models.User
	emailIndex map[string]string
	activated  map[string]bool
	deleted    []string
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	out := make([]models.User, 0, len(m.items))
	for _, u := range m.items {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.items[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	if owner, ok := m.emailIndex[email]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.items == nil {
		m.items = make(map[string]*models.User)
	}
	if user.ID == "" {
		user.ID = "generated"
	}
	cp := *user
	m.items[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	cp := *user
	m.items[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	if m.activated == nil {
		m.activated = make(map[string]bool)
	}
	m.activated[id] = active
	if u, ok := m.items[id]; ok {
		u.Active = active
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "admin@example.com",
		Password: "open sesame",
		FullName: "Admin One",
		Role:     "ADMIN",
	})
	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.NotEqual(t, "open sesame", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("open sesame")))
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{emailIndex: map[string]string{"admin@example.com": "other"}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "admin@example.com",
		Password: "open sesame",
		FullName: "Admin One",
		Role:     "ADMIN",
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "email")
}

func TestUserServiceCreateRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "admin@example.com",
		Password: "open sesame",
		FullName: "Admin One",
		Role:     "WIZARD",
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "role")
}

func TestUserServiceActivateDeactivate(t *testing.T) {
	repo := &mockUserRepo{items: map[string]*models.User{
		"u1": {ID: "u1", Email: "admin@example.com", Active: true},
	}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	require.NoError(t, svc.Deactivate(context.Background(), "u1"))
	assert.False(t, repo.activated["u1"])

	require.NoError(t, svc.Activate(context.Background(), "u1"))
	assert.True(t, repo.activated["u1"])

	require.Error(t, svc.Activate(context.Background(), "missing"))
}
