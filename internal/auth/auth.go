// Package auth turns a session token issued by the identity provider
// integration into the principal that performs a request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"setlists/internal/models"
	"setlists/internal/store"
)

var (
	// ErrUnauthenticated indicates a missing, malformed or expired session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the session is valid but the caller may not proceed,
	// either because the email is not allow-listed or the role is insufficient.
	ErrForbidden = errors.New("forbidden")
)

// Principal is the authenticated caller, resolved once per request.
type Principal struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
}

// IsAdmin reports whether the principal may manage the user directory.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// RequireAdmin returns ErrForbidden unless p is an admin.
func (p Principal) RequireAdmin() error {
	if !p.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// UserLookup finds allow-listed users by email.
type UserLookup interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
}

// Authenticator verifies HS256 session tokens and checks the allow list.
type Authenticator struct {
	secret []byte
	issuer string
	users  UserLookup
}

// NewAuthenticator builds an Authenticator. An empty issuer disables the
// issuer check.
func NewAuthenticator(secret []byte, issuer string, users UserLookup) *Authenticator {
	return &Authenticator{secret: secret, issuer: issuer, users: users}
}

// Authenticate verifies token and returns the matching allow-listed user.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, fmt.Errorf("%w: missing bearer token", ErrUnauthenticated)
	}

	claims, err := a.verify(token)
	if err != nil {
		return Principal{}, err
	}

	user, err := a.users.UserByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return Principal{}, fmt.Errorf("%w: %s is not on the allow list", ErrForbidden, claims.Email)
		}
		return Principal{}, fmt.Errorf("lookup principal: %w", err)
	}

	return Principal{UserID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}, nil
}

// IssueToken signs a session token for email valid for ttl.
func (a *Authenticator) IssueToken(email, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) verify(raw string) (*SessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}
	if strings.TrimSpace(claims.Email) == "" {
		return nil, fmt.Errorf("%w: token has no email", ErrUnauthenticated)
	}
	return claims, nil
}
