package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"setlists/internal/models"
	"setlists/internal/store"
)

type stubUsers struct {
	users     map[string]models.User
	err       error
	lastEmail string
}

func (s *stubUsers) UserByEmail(_ context.Context, email string) (models.User, error) {
	s.lastEmail = email
	if s.err != nil {
		return models.User{}, s.err
	}
	u, ok := s.users[email]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return u, nil
}

var testSecret = []byte("0123456789abcdef0123")

func newTestAuthenticator(users *stubUsers) *Authenticator {
	return NewAuthenticator(testSecret, "setlists", users)
}

func TestAuthenticateAllowListedUser(t *testing.T) {
	users := &stubUsers{users: map[string]models.User{
		"ola@example.com": {ID: "u1", Email: "ola@example.com", Name: "Ola", Role: models.RoleAdmin},
	}}
	a := newTestAuthenticator(users)

	token, err := a.IssueToken("ola@example.com", "Ola", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	p, err := a.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if p.UserID != "u1" || !p.IsAdmin() {
		t.Fatalf("unexpected principal: %#v", p)
	}
	if users.lastEmail != "ola@example.com" {
		t.Fatalf("expected lookup by email, got %q", users.lastEmail)
	}
}

func TestAuthenticateUnknownEmailIsForbidden(t *testing.T) {
	a := newTestAuthenticator(&stubUsers{users: map[string]models.User{}})
	token, _ := a.IssueToken("stranger@example.com", "", time.Hour)

	_, err := a.Authenticate(context.Background(), token)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	a := newTestAuthenticator(&stubUsers{})
	expired, _ := a.IssueToken("ola@example.com", "", -time.Minute)
	otherIssuer, _ := NewAuthenticator(testSecret, "elsewhere", nil).IssueToken("ola@example.com", "", time.Hour)
	otherSecret, _ := NewAuthenticator([]byte("another-secret-value"), "setlists", nil).IssueToken("ola@example.com", "", time.Hour)
	noEmail, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "setlists",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(testSecret)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionClaims{
		Email:            "ola@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "setlists"},
	}).SignedString(testSecret)

	tests := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"expired":      expired,
		"wrong issuer": otherIssuer,
		"wrong secret": otherSecret,
		"no email":     noEmail,
		"no expiry":    noExpiry,
	}
	for name, token := range tests {
		token := token
		t.Run(name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), token)
			if !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestAuthenticateLookupFailure(t *testing.T) {
	a := newTestAuthenticator(&stubUsers{err: errors.New("db down")})
	token, _ := a.IssueToken("ola@example.com", "", time.Hour)

	_, err := a.Authenticate(context.Background(), token)
	if err == nil || errors.Is(err, ErrForbidden) || errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	if err := (Principal{Role: models.RoleUser}).RequireAdmin(); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := (Principal{Role: models.RoleAdmin}).RequireAdmin(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
