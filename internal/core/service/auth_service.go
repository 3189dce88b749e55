package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
	"github.com/shizzytech/LinguaSync-AI/internal/core/repository"
	"github.com/shizzytech/LinguaSync-AI/internal/metrics"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 10

type AuthService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	metrics    *metrics.Metrics
}

func NewAuthService(userRepo repository.UserRepository, bcryptCost int, m *metrics.Metrics) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = BcryptCost
	}
	return &AuthService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		metrics:    m,
	}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Register creates a user. The email and username are case-folded before the
// duplicate check and before they are stored.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.metrics.ObserveRegistration(metrics.ResultFailed)
		return nil, err
	}
	if existing != nil {
		s.metrics.ObserveRegistration(metrics.ResultConflict)
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.HashPassword(password)
	if errors.Is(err, ErrPasswordTooLong) {
		return nil, err
	}
	if err != nil {
		s.metrics.ObserveRegistration(metrics.ResultFailed)
		return nil, err
	}

	user := domain.NewUser(username, email, hashedPassword)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.ObserveRegistration(metrics.ResultConflict)
			return nil, ErrEmailTaken
		}
		s.metrics.ObserveRegistration(metrics.ResultFailed)
		return nil, err
	}

	s.metrics.ObserveRegistration(metrics.ResultSuccess)
	return user, nil
}

// Authenticate returns ErrInvalidCredentials for both an unknown email and a
// wrong password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.metrics.ObserveLogin(metrics.ResultFailed)
		return nil, err
	}
	if user == nil || !s.VerifyPassword(password, user.Password) {
		s.metrics.ObserveLogin(metrics.ResultInvalid)
		return nil, ErrInvalidCredentials
	}

	s.metrics.ObserveLogin(metrics.ResultSuccess)
	return user, nil
}

// CurrentUser loads the user a session points at.
func (s *AuthService) CurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}
