package user

import (
	"context"
	"errors"
	"time"

	userRepo "medicare/database/repository/user"
	"medicare/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService handles account registration and sign-in.
type UserService interface {
	RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	AuthenticateUser(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// SessionStore remembers the hash of the token issued at sign-in.
type SessionStore interface {
	Save(ctx context.Context, userID, tokenHash string) error
}

// DefaultUserService implements UserService. Sessions is optional.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Sessions SessionStore
	TokenTTL time.Duration
	Logger   *zap.Logger

	validate *validator.Validate
}

func NewUserService(repo userRepo.UserRepository, sessions SessionStore, tokenTTL time.Duration, logger *zap.Logger) *DefaultUserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokenTTL <= 0 {
		tokenTTL = 30 * 24 * time.Hour
	}
	return &DefaultUserService{
		Repo:     repo,
		Sessions: sessions,
		TokenTTL: tokenTTL,
		Logger:   logger,
		validate: validator.New(),
	}
}
