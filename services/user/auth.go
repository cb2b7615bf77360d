package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "medicare/database/repository/user"
	"medicare/models"
	"medicare/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ValidationError wraps a rejected register or login payload.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// RegisterUser creates an email account and signs it in.
func (s *DefaultUserService) RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		AuthProvider: models.AuthProviderEmail,
		IsActive:     true,
		LastLogin:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, userRepo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.Logger.Info("user registered", zap.String("userID", user.ID))
	return s.issue(ctx, user)
}

// AuthenticateUser checks credentials and issues a fresh token.
func (s *DefaultUserService) AuthenticateUser(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	now := time.Now().UTC()
	if err := s.Repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.Logger.Warn("failed to record last login", zap.String("userID", user.ID), zap.Error(err))
	}
	user.LastLogin = now

	s.Logger.Info("user signed in", zap.String("userID", user.ID))
	return s.issue(ctx, user)
}

// GetUser returns an active account.
func (s *DefaultUserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

func (s *DefaultUserService) issue(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, s.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if s.Sessions != nil {
		if err := s.Sessions.Save(ctx, user.ID, utils.HashToken(token)); err != nil {
			s.Logger.Warn("failed to cache auth session", zap.String("userID", user.ID), zap.Error(err))
		}
	}
	return &models.AuthResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		AuthProvider: user.AuthProvider,
		Token:        token,
	}, nil
}
