package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"setlists/internal/config"
	"setlists/internal/models"
	"setlists/internal/store"
)

type userCreator interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
}

// ensureAdmin seeds the allow list with the configured administrator so a
// fresh database has someone able to add the rest of the band.
func ensureAdmin(ctx context.Context, users userCreator, cfg config.BootstrapConfig) error {
	if cfg.AdminEmail == "" {
		return nil
	}

	_, err := users.CreateUser(ctx, models.User{
		Email: cfg.AdminEmail,
		Name:  cfg.AdminName,
		Role:  models.RoleAdmin,
	})
	switch {
	case errors.Is(err, store.ErrUserExists):
		return nil
	case err != nil:
		return fmt.Errorf("bootstrap admin user: %w", err)
	}
	log.Info().Str("email", cfg.AdminEmail).Msg("Created admin user")
	return nil
}
