package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/salon-crm/internal/config"
	"github.com/spec-kit/salon-crm/internal/domain"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 24,
			BcryptCost:    bcrypt.MinCost,
		},
	}
	return NewAuthService(cfg, AuthDependencies{UserRepo: newFakeUserRepo()})
}

func TestRegisterDefaultsStaffRole(t *testing.T) {
	authService := newTestAuth(t)

	user, err := authService.Register(context.Background(), "Maria", "maria@salon.com", "s3cret", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.UserRoleStaff {
		t.Fatalf("expected staff role, got %s", user.Role)
	}
	if user.PasswordHash == "s3cret" {
		t.Fatal("password stored in cleartext")
	}
}

func TestRegisterValidation(t *testing.T) {
	authService := newTestAuth(t)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		role     domain.UserRole
	}{
		{"empty name", "", "a@b.com", "pw", ""},
		{"empty email", "Maria", "", "pw", ""},
		{"empty password", "Maria", "a@b.com", "", ""},
		{"unknown role", "Maria", "a@b.com", "pw", "owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Register(context.Background(), tt.userName, tt.email, tt.password, tt.role)
			assertDomainCode(t, err, "VALIDATION_FAILED")
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	authService := newTestAuth(t)

	if _, err := authService.Register(context.Background(), "Maria", "maria@salon.com", "s3cret", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := authService.Register(context.Background(), "Other", "maria@salon.com", "s3cret", "")
	assertDomainCode(t, err, "CONFLICT")
}

// A wrong password and a nonexistent account must be indistinguishable.
func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	authService := newTestAuth(t)

	if _, err := authService.Register(context.Background(), "Maria", "maria@salon.com", "s3cret", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassErr := authService.Authenticate(context.Background(), "maria@salon.com", "wrong")
	_, missingUserErr := authService.Authenticate(context.Background(), "nobody@salon.com", "s3cret")

	assertDomainCode(t, wrongPassErr, "UNAUTHORIZED")
	assertDomainCode(t, missingUserErr, "UNAUTHORIZED")
	if wrongPassErr.Error() != missingUserErr.Error() {
		t.Fatalf("failure causes distinguishable: %q vs %q", wrongPassErr, missingUserErr)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	authService := newTestAuth(t)

	registered, err := authService.Register(context.Background(), "Maria", "maria@salon.com", "s3cret", domain.UserRoleAdmin)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, exp, err := authService.Login(context.Background(), "maria@salon.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %d, got %d", registered.ID, user.ID)
	}

	claims, err := authService.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	userID, err := claims.UserID()
	if err != nil {
		t.Fatalf("claims user id: %v", err)
	}
	if userID != registered.ID {
		t.Fatalf("token subject mismatch: %d", userID)
	}
	if claims.Email != "maria@salon.com" {
		t.Fatalf("token email mismatch: %s", claims.Email)
	}

	ttl := time.Until(exp)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Fatalf("expected roughly 24h expiry, got %v", ttl)
	}
}

func TestGetUserNotFound(t *testing.T) {
	authService := newTestAuth(t)
	_, err := authService.GetUser(context.Background(), 404)
	assertDomainCode(t, err, "NOT_FOUND")
}
