package user

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	userRepo "medicare/database/repository/user"
	"medicare/models"
	"medicare/utils"
)

type mockUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	touched map[string]time.Time
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*models.User{}, touched: map[string]time.Time{}}
}

func (m *mockUserRepo) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return userRepo.ErrDuplicateEmail
		}
	}
	u.ID = "user-" + u.Email
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, userRepo.ErrUserNotFound
}

func (m *mockUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched[id] = at
	return nil
}

func (m *mockUserRepo) EnsureIndexes(context.Context) error { return nil }

type mockSessions struct {
	saved map[string]string
}

func (m *mockSessions) Save(_ context.Context, userID, tokenHash string) error {
	m.saved[userID] = tokenHash
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	ctx := context.Background()
	repo := newMockUserRepo()
	sessions := &mockSessions{saved: map[string]string{}}
	svc := NewUserService(repo, sessions, time.Hour, nil)

	reg, err := svc.RegisterUser(ctx, models.RegisterRequest{Name: "Jane", Email: " Jane@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if reg.Email != "jane@example.com" {
		t.Fatalf("expected normalized email, got %q", reg.Email)
	}
	sub, err := utils.ExtractIDFromToken(reg.Token)
	if err != nil || sub != reg.ID {
		t.Fatalf("expected token subject %q, got %q (%v)", reg.ID, sub, err)
	}
	if sessions.saved[reg.ID] != utils.HashToken(reg.Token) {
		t.Fatal("expected session hash to be cached")
	}

	if _, err := svc.RegisterUser(ctx, models.RegisterRequest{Name: "J2", Email: "jane@example.com", Password: "secret2"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}

	if _, err := svc.AuthenticateUser(ctx, models.LoginRequest{Email: "jane@example.com", Password: "wrong!"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	login, err := svc.AuthenticateUser(ctx, models.LoginRequest{Email: "JANE@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, ok := repo.touched[login.ID]; !ok {
		t.Fatal("expected last login to be recorded")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), nil, time.Hour, nil)
	_, err := svc.RegisterUser(context.Background(), models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "123"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInactiveAccountRefused(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepo()
	svc := NewUserService(repo, nil, time.Hour, nil)

	reg, err := svc.RegisterUser(ctx, models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	repo.users[reg.ID].IsActive = false

	if _, err := svc.AuthenticateUser(ctx, models.LoginRequest{Email: "jane@example.com", Password: "secret1"}); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("expected inactive account, got %v", err)
	}
	if _, err := svc.GetUser(ctx, reg.ID); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("expected inactive account, got %v", err)
	}
	if _, err := svc.GetUser(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
