package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"setlists/internal/models"
)

// ListCategories returns every category ordered by name with the number of
// setlists tagged with it.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.color, COUNT(sc.setlist_id), c.created_at, c.updated_at
		FROM categories c
		LEFT JOIN setlist_categories sc ON sc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.SetlistCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts a new category.
func (s *Store) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	category.ID = s.newID()
	now := time.Now().UTC()

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`, category.ID, category.Name, category.Color, now); err != nil {
		return models.Category{}, fmt.Errorf("insert category: %w", err)
	}
	category.SetlistCount = 0
	category.CreatedAt = now
	category.UpdatedAt = now
	return category, nil
}

// UpdateCategory renames or recolours a category.
func (s *Store) UpdateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE categories
		SET name = $2, color = $3, updated_at = $4
		WHERE id = $1
		RETURNING created_at, updated_at,
		          (SELECT COUNT(*) FROM setlist_categories WHERE category_id = $1)
	`, category.ID, category.Name, category.Color, time.Now().UTC()).
		Scan(&category.CreatedAt, &category.UpdatedAt, &category.SetlistCount)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category and its setlist associations. The
// setlists themselves are kept.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
