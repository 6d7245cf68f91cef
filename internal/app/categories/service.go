package categories

import (
	"context"
	"strings"

	"setlists/internal/app"
	"setlists/internal/auth"
	"setlists/internal/models"
)

// Store captures the persistence needs for categories.
type Store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, category models.Category) (models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Service coordinates category operations.
type Service interface {
	List(ctx context.Context, p auth.Principal) ([]models.Category, error)
	Create(ctx context.Context, p auth.Principal, name, color string) (models.Category, error)
	Update(ctx context.Context, p auth.Principal, id, name, color string) (models.Category, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, p auth.Principal) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := app.RequirePrincipal(p); err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx)
}

func (s *service) Create(ctx context.Context, p auth.Principal, name, color string) (models.Category, error) {
	if err := ctx.Err(); err != nil {
		return models.Category{}, err
	}
	if err := app.RequirePrincipal(p); err != nil {
		return models.Category{}, err
	}
	c, err := validate(name, color)
	if err != nil {
		return models.Category{}, err
	}
	return s.store.CreateCategory(ctx, c)
}

func (s *service) Update(ctx context.Context, p auth.Principal, id, name, color string) (models.Category, error) {
	if err := ctx.Err(); err != nil {
		return models.Category{}, err
	}
	if err := app.RequirePrincipal(p); err != nil {
		return models.Category{}, err
	}
	c, err := validate(name, color)
	if err != nil {
		return models.Category{}, err
	}
	c.ID = id
	return s.store.UpdateCategory(ctx, c)
}

func (s *service) Delete(ctx context.Context, p auth.Principal, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := app.RequirePrincipal(p); err != nil {
		return err
	}
	return s.store.DeleteCategory(ctx, id)
}

func validate(name, color string) (models.Category, error) {
	name = strings.TrimSpace(name)
	color = strings.TrimSpace(color)
	if name == "" || color == "" {
		return models.Category{}, app.Invalidf("name and color are required")
	}
	if !models.ValidCategoryColor(color) {
		return models.Category{}, app.Invalidf("unknown color %q", color)
	}
	return models.Category{Name: name, Color: color}, nil
}
