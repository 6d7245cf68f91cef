package users

import (
	"context"
	"net/mail"
	"strings"

	"setlists/internal/app"
	"setlists/internal/auth"
	"setlists/internal/models"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
}

// Service manages the allow list. Every operation is admin only.
type Service interface {
	List(ctx context.Context, p auth.Principal) ([]models.User, error)
	Create(ctx context.Context, p auth.Principal, email, name string, role models.Role) (models.User, error)
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, p auth.Principal) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

func (s *service) Create(ctx context.Context, p auth.Principal, email, name string, role models.Role) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	if err := p.RequireAdmin(); err != nil {
		return models.User{}, err
	}

	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return models.User{}, app.Invalidf("email and name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, app.Invalidf("invalid email %q", email)
	}
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return models.User{}, app.Invalidf("role must be admin or user")
	}

	return s.store.CreateUser(ctx, models.User{Email: email, Name: name, Role: role})
}
