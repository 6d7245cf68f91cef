// Package app holds what the domain services share.
package app

import (
	"errors"
	"fmt"

	"setlists/internal/auth"
)

// ErrInvalidInput indicates a request that fails field validation.
var ErrInvalidInput = errors.New("invalid input")

// Invalidf wraps ErrInvalidInput with a message for the caller.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// RequirePrincipal rejects calls made without a resolved user.
func RequirePrincipal(p auth.Principal) error {
	if p.UserID == "" {
		return auth.ErrUnauthenticated
	}
	return nil
}
