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

const parcelColumns = `id, post_id, recipient_name, recipient_phone_num, instruction, process_state, created_at, updated_at`

// ParcelRepository persists undelivered parcel posts and their parcels.
type ParcelRepository struct {
	db *sqlx.DB
}

// NewParcelRepository constructs the repository.
func NewParcelRepository(db *sqlx.DB) *ParcelRepository {
	return &ParcelRepository{db: db}
}

// CreatePost inserts a parcel post.
func (r *ParcelRepository) CreatePost(ctx context.Context, post *models.ParcelPost) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	const query = `INSERT INTO parcel_posts (id, title, author_id, created_at, updated_at) VALUES (:id, :title, :author_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create parcel post: %w", err)
	}
	return nil
}

// FindPostByID returns a parcel post by identifier.
func (r *ParcelRepository) FindPostByID(ctx context.Context, id string) (*models.ParcelPost, error) {
	const query = `SELECT id, title, author_id, created_at, updated_at FROM parcel_posts WHERE id = $1`
	var post models.ParcelPost
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find parcel post: %w", err)
	}
	return &post, nil
}

// ListByPost returns the parcels of a post, oldest first.
func (r *ParcelRepository) ListByPost(ctx context.Context, postID string) ([]models.Parcel, error) {
	const query = `SELECT ` + parcelColumns + ` FROM parcels WHERE post_id = $1 ORDER BY created_at ASC`
	parcels := make([]models.Parcel, 0)
	if err := r.db.SelectContext(ctx, &parcels, query, postID); err != nil {
		return nil, fmt.Errorf("list parcels: %w", err)
	}
	return parcels, nil
}

// FindParcel returns a parcel scoped to its post.
func (r *ParcelRepository) FindParcel(ctx context.Context, postID, id string) (*models.Parcel, error) {
	const query = `SELECT ` + parcelColumns + ` FROM parcels WHERE id = $1 AND post_id = $2`
	var parcel models.Parcel
	if err := r.db.GetContext(ctx, &parcel, query, id, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find parcel: %w", err)
	}
	return &parcel, nil
}

// CreateParcel inserts a parcel.
func (r *ParcelRepository) CreateParcel(ctx context.Context, parcel *models.Parcel) error {
	if parcel.ID == "" {
		parcel.ID = uuid.NewString()
	}
	if parcel.ProcessState == "" {
		parcel.ProcessState = models.ParcelPending
	}
	now := time.Now().UTC()
	parcel.CreatedAt = now
	parcel.UpdatedAt = now

	const query = `INSERT INTO parcels (` + parcelColumns + `)
VALUES (:id, :post_id, :recipient_name, :recipient_phone_num, :instruction, :process_state, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, parcel); err != nil {
		if isForeignKeyViolation(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("create parcel: %w", err)
	}
	return nil
}

// UpdateParcel overwrites the mutable fields of a parcel.
func (r *ParcelRepository) UpdateParcel(ctx context.Context, parcel *models.Parcel) error {
	parcel.UpdatedAt = time.Now().UTC()
	const query = `UPDATE parcels SET recipient_name = :recipient_name, recipient_phone_num = :recipient_phone_num,
instruction = :instruction, process_state = :process_state, updated_at = :updated_at WHERE id = :id AND post_id = :post_id`
	res, err := r.db.NamedExecContext(ctx, query, parcel)
	if err != nil {
		return fmt.Errorf("update parcel: %w", err)
	}
	return expectAffected(res)
}

// DeleteParcel removes a parcel scoped to its post.
func (r *ParcelRepository) DeleteParcel(ctx context.Context, postID, id string) error {
	const query = `DELETE FROM parcels WHERE id = $1 AND post_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, postID)
	if err != nil {
		return fmt.Errorf("delete parcel: %w", err)
	}
	return expectAffected(res)
}
