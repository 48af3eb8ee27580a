package services

import (
	"context"
	"errors"
	"testing"

	"monetus/internal/core"
)

func registerTestUser(t *testing.T, svc *AuthService) {
	t.Helper()
	err := svc.Register(context.Background(), "Ana", "Ana@Example.com", "hunter22", "first pet", "Rex")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store := newTestStore(t)
	svc := NewAuthService(store)
	ctx := context.Background()
	registerTestUser(t, svc)

	// Email is normalized on both sides.
	profile, err := svc.Authenticate(ctx, "  ana@example.COM ", "hunter22")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if profile.Name != "Ana" || profile.Email != "ana@example.com" || profile.AuthProvider != "local" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	stored, err := store.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if stored == nil || stored.ID != profile.ID {
		t.Fatalf("active profile not recorded")
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	stored, _ = store.GetProfile(ctx)
	if stored != nil {
		t.Fatalf("profile should be cleared after logout")
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newTestStore(t))
	ctx := context.Background()
	registerTestUser(t, svc)

	if _, err := svc.Authenticate(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newTestStore(t))
	registerTestUser(t, svc)
	err := svc.Register(context.Background(), "Ana 2", "ana@example.com", "hunter22", "q", "a")
	if !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := NewAuthService(newTestStore(t))
	err := svc.Register(context.Background(), "Ana", "ana@example.com", "short", "q", "a")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	svc := NewAuthService(newTestStore(t))
	ctx := context.Background()
	registerTestUser(t, svc)

	// Answers compare case-insensitively on trimmed input.
	if err := svc.ResetPassword(ctx, "ana@example.com", "  REX ", "newsecret"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "ana@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ana@example.com", "newsecret"); err != nil {
		t.Fatalf("new password must work: %v", err)
	}
}

func TestResetPasswordWrongAnswer(t *testing.T) {
	svc := NewAuthService(newTestStore(t))
	ctx := context.Background()
	registerTestUser(t, svc)

	err := svc.ResetPassword(ctx, "ana@example.com", "Bobby", "newsecret")
	if !errors.Is(err, ErrSecurityAnswerMismatch) {
		t.Fatalf("expected ErrSecurityAnswerMismatch, got %v", err)
	}
	// The original password still works.
	if _, err := svc.Authenticate(ctx, "ana@example.com", "hunter22"); err != nil {
		t.Fatalf("password must be untouched: %v", err)
	}
}
