package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dominest-api/internal/models"
)

const dayNoticeColumns = `id, notice_date, title, content, author_id, repeat_schedule_id, created_at`

// DayNoticeRepository persists notices pinned to calendar days.
type DayNoticeRepository struct {
	db *sqlx.DB
}

// NewDayNoticeRepository constructs the repository.
func NewDayNoticeRepository(db *sqlx.DB) *DayNoticeRepository {
	return &DayNoticeRepository{db: db}
}

func (r *DayNoticeRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Insert stores a notice. A notice already generated for the same schedule and date is skipped
// and reported with inserted=false.
func (r *DayNoticeRepository) Insert(ctx context.Context, exec sqlx.ExtContext, notice *models.DayNotice) (bool, error) {
	if notice.ID == "" {
		notice.ID = uuid.NewString()
	}
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO day_notices (` + dayNoticeColumns + `)
VALUES (:id, :notice_date, :title, :content, :author_id, :repeat_schedule_id, :created_at)
ON CONFLICT (repeat_schedule_id, notice_date) DO NOTHING`
	res, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, notice)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, sql.ErrNoRows
		}
		return false, fmt.Errorf("insert day notice: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// FindByID returns a notice by identifier.
func (r *DayNoticeRepository) FindByID(ctx context.Context, id string) (*models.DayNotice, error) {
	const query = `SELECT ` + dayNoticeColumns + ` FROM day_notices WHERE id = $1`
	var notice models.DayNotice
	if err := r.db.GetContext(ctx, &notice, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find day notice: %w", err)
	}
	return &notice, nil
}

// ListByDate returns the notices of one day in creation order.
func (r *DayNoticeRepository) ListByDate(ctx context.Context, date time.Time) ([]models.DayNotice, error) {
	const query = `SELECT ` + dayNoticeColumns + ` FROM day_notices WHERE notice_date = $1 ORDER BY created_at ASC`
	notices := make([]models.DayNotice, 0)
	if err := r.db.SelectContext(ctx, &notices, query, date); err != nil {
		return nil, fmt.Errorf("list day notices by date: %w", err)
	}
	return notices, nil
}

// ListBySchedule returns the notices generated from a repeat schedule in date order.
func (r *DayNoticeRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.DayNotice, error) {
	const query = `SELECT ` + dayNoticeColumns + ` FROM day_notices WHERE repeat_schedule_id = $1 ORDER BY notice_date ASC`
	notices := make([]models.DayNotice, 0)
	if err := r.db.SelectContext(ctx, &notices, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list day notices by schedule: %w", err)
	}
	return notices, nil
}

// DatesInRange returns the distinct dates in [from, to) holding at least one notice.
func (r *DayNoticeRepository) DatesInRange(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	query, args, err := psql.Select("DISTINCT notice_date").
		From("day_notices").
		Where(squirrel.GtOrEq{"notice_date": from}).
		Where(squirrel.Lt{"notice_date": to}).
		OrderBy("notice_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notice dates query: %w", err)
	}
	dates := make([]time.Time, 0)
	if err := r.db.SelectContext(ctx, &dates, query, args...); err != nil {
		return nil, fmt.Errorf("list notice dates: %w", err)
	}
	return dates, nil
}

// Delete removes a notice and returns it.
func (r *DayNoticeRepository) Delete(ctx context.Context, id string) (*models.DayNotice, error) {
	const query = `DELETE FROM day_notices WHERE id = $1 RETURNING ` + dayNoticeColumns
	var notice models.DayNotice
	if err := r.db.GetContext(ctx, &notice, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("delete day notice: %w", err)
	}
	return &notice, nil
}
