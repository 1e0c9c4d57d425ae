package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	autherrors "carbook/internal/auth/errors"
	"carbook/internal/auth/repository"
	"carbook/internal/auth/session"
	"carbook/internal/auth/validator"
	"carbook/pkg/config"
	apperrors "carbook/pkg/errors"
	"carbook/pkg/model"
	"carbook/pkg/sanitizer"
)

// AuthService registers accounts and exchanges credentials for sessions.
type AuthService interface {
	Register(ctx context.Context, creds model.Credentials) (*model.Session, error)
	Login(ctx context.Context, creds model.Credentials) (*model.Session, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	cfg       *config.Config
	users     repository.UserRepository
	sessions  session.Store
	validator *validator.AuthValidator
}

func NewAuthService(cfg *config.Config, users repository.UserRepository, sessions session.Store, v *validator.AuthValidator) AuthService {
	return &authService{
		cfg:       cfg,
		users:     users,
		sessions:  sessions,
		validator: v,
	}
}

func (s *authService) Register(ctx context.Context, creds model.Credentials) (*model.Session, error) {
	creds.Email = sanitizer.NormalizeEmail(creds.Email)
	creds.Name = sanitizer.NormalizeName(creds.Name)

	if err := s.validator.ValidateCredentials(creds); err != nil {
		return nil, apperrors.Validation("Invalid registration details", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to register user", err)
	}

	user := &model.User{
		Name:         displayName(creds),
		Email:        creds.Email,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, autherrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email already registered")
		}
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("user registered", "user_id", user.ID, "email", user.Email)

	return s.createSession(ctx, user)
}

func (s *authService) Login(ctx context.Context, creds model.Credentials) (*model.Session, error) {
	creds.Email = sanitizer.NormalizeEmail(creds.Email)

	if err := s.validator.ValidateCredentials(creds); err != nil {
		return nil, apperrors.Validation("Invalid login details", map[string]any{"error": err.Error()})
	}

	user, err := s.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			// Same response as a bad password so account existence
			// can't be probed.
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	s.cfg.Log.Info("user logged in", "user_id", user.ID, "email", user.Email)

	return s.createSession(ctx, user)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		// Logout still succeeds for the client; the TTL index reaps
		// the session once it expires.
		s.cfg.Log.Error("failed to delete session", "error", err)
	}
	return nil
}

func (s *authService) createSession(ctx context.Context, user *model.User) (*model.Session, error) {
	sess, err := s.sessions.Create(ctx, model.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to create session", err)
	}
	return sess, nil
}

// displayName falls back to the email local part when no name is given.
func displayName(creds model.Credentials) string {
	if creds.Name != "" {
		return creds.Name
	}
	if at := strings.Index(creds.Email, "@"); at > 0 {
		return creds.Email[:at]
	}
	return "User"
}
