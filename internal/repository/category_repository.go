package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dominest-api/internal/models"
)

// CategoryRepository reads board categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository constructs the repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindByID returns a category by identifier.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	const query = `SELECT id, name, type, created_at FROM categories WHERE id = $1`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

// ListFavoritedBy returns the categories the user currently has switched on.
func (r *CategoryRepository) ListFavoritedBy(ctx context.Context, userID string) ([]models.Category, error) {
	const query = `SELECT c.id, c.name, c.type, c.created_at FROM categories c
JOIN favorites f ON f.category_id = c.id
WHERE f.user_id = $1 AND f.on_off = TRUE
ORDER BY c.name ASC`
	categories := make([]models.Category, 0)
	if err := r.db.SelectContext(ctx, &categories, query, userID); err != nil {
		return nil, fmt.Errorf("list favorite categories: %w", err)
	}
	return categories, nil
}
