package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/store"
)

// AuthService provides user registration and login.
type AuthService interface {
	// Register creates a new user and returns it together with a signed
	// access token.
	// Returns ErrUsernameTaken, ErrWeakPassword, or a validation error.
	Register(ctx context.Context, username, password string) (*domain.User, string, error)

	// Login verifies the credentials and returns the user together with a
	// signed access token.
	// Returns ErrInvalidCredentials for both unknown users and wrong
	// passwords.
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	userRepo store.UserStore
	hasher   PasswordHasher
	verifier PasswordVerifier
	jwt      JWTService
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
// It returns an error if any of the required dependencies are nil.
func NewAuthService(
	userRepo store.UserStore,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	jwtService JWTService,
	logger *slog.Logger,
) (AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("userRepo cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("hasher cannot be nil")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier cannot be nil")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("jwtService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authServiceImpl{
		userRepo: userRepo,
		hasher:   hasher,
		verifier: verifier,
		jwt:      jwtService,
		logger:   logger.With("component", "auth_service"),
	}, nil
}

// Register creates a new user with a hashed password.
func (s *authServiceImpl) Register(ctx context.Context, username, password string) (*domain.User, string, error) {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return nil, "", ErrWeakPassword
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(username, hashed)
	if err != nil {
		return nil, "", err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return nil, "", ErrUsernameTaken
		}
		s.logger.Error("failed to create user",
			"error", err,
			"username", username)
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"username", user.Username)
	return user, token, nil
}

// Login verifies the credentials and issues an access token.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same error as a wrong password; do not leak which usernames
			// exist.
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error("failed to load user for login",
			"error", err,
			"username", username)
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("password mismatch", "username", username)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in",
		"user_id", user.ID,
		"username", user.Username)
	return user, token, nil
}
