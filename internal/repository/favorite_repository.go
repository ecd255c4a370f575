package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dominest-api/internal/models"
)

// FavoriteRepository persists user favorites.
type FavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository constructs the repository.
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// FindByCategoryAndUserEmail returns the favorite row linking the category to the user with that email.
func (r *FavoriteRepository) FindByCategoryAndUserEmail(ctx context.Context, categoryID, email string) (*models.Favorite, error) {
	const query = `SELECT f.id, f.user_id, f.category_id, f.on_off, f.created_at, f.updated_at
FROM favorites f JOIN users u ON u.id = f.user_id
WHERE f.category_id = $1 AND u.email = $2`
	var favorite models.Favorite
	if err := r.db.GetContext(ctx, &favorite, query, categoryID, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find favorite: %w", err)
	}
	return &favorite, nil
}

// Create inserts a favorite. A concurrent insert for the same pair yields ErrDuplicate.
func (r *FavoriteRepository) Create(ctx context.Context, favorite *models.Favorite) error {
	if favorite.ID == "" {
		favorite.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	favorite.CreatedAt = now
	favorite.UpdatedAt = now

	const query = `INSERT INTO favorites (id, user_id, category_id, on_off, created_at, updated_at)
VALUES (:id, :user_id, :category_id, :on_off, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, favorite); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create favorite: %w", err)
	}
	return nil
}

// UpdateOnOff persists the on/off state of a favorite.
func (r *FavoriteRepository) UpdateOnOff(ctx context.Context, favorite *models.Favorite) error {
	favorite.UpdatedAt = time.Now().UTC()
	const query = `UPDATE favorites SET on_off = :on_off, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, favorite)
	if err != nil {
		return fmt.Errorf("update favorite: %w", err)
	}
	return expectAffected(res)
}
