package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"monetus/internal/storage"
)

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrSecurityAnswerMismatch = errors.New("security answer does not match")
	ErrWeakPassword           = errors.New("password too short")
)

const minPasswordLen = 6

// AuthService implements the simple local credential check: register,
// authenticate, and a security-question password reset. Credential policy
// beyond this (sessions, tokens, providers) is out of scope.
type AuthService struct {
	store *storage.Repository
}

func NewAuthService(store *storage.Repository) *AuthService {
	return &AuthService{store: store}
}

// Register creates a local account. An already-registered email surfaces
// as core.ErrDuplicate.
func (s *AuthService) Register(ctx context.Context, name, email, password, securityQuestion, securityAnswer string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("register: %w", ErrInvalidCredentials)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("register: %w", ErrWeakPassword)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	answerHash, err := bcrypt.GenerateFromPassword([]byte(normalizeAnswer(securityAnswer)), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash security answer: %w", err)
	}

	return s.store.CreateLocalUser(ctx, storage.LocalUser{
		Email:              email,
		UserID:             uuid.NewString(),
		Name:               name,
		PasswordHash:       string(passwordHash),
		SecurityQuestion:   securityQuestion,
		SecurityAnswerHash: string(answerHash),
	})
}

// Authenticate checks the credentials and, on success, records the active
// profile in the store.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*storage.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.GetLocalUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	profile := storage.UserProfile{
		ID:           user.UserID,
		Name:         user.Name,
		Email:        user.Email,
		AuthProvider: "local",
	}
	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	slog.InfoContext(ctx, "User authenticated", "email", email)
	return &profile, nil
}

// ResetPassword replaces the password after checking the stored security
// answer. Answers compare case-insensitively on trimmed input; a mismatch
// is ErrSecurityAnswerMismatch.
func (s *AuthService) ResetPassword(ctx context.Context, email, securityAnswer, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.GetLocalUser(ctx, email)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if user == nil {
		return fmt.Errorf("reset password: %w", ErrInvalidCredentials)
	}
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("reset password: %w", ErrWeakPassword)
	}

	if user.SecurityAnswerHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.SecurityAnswerHash), []byte(normalizeAnswer(securityAnswer))) != nil {
		return ErrSecurityAnswerMismatch
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(passwordHash)

	if err := s.store.UpdateLocalUser(ctx, *user); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	slog.InfoContext(ctx, "Password reset", "email", email)
	return nil
}

// Logout clears the active profile.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.ClearProfile(ctx)
}

func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
