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

const repeatScheduleColumns = `id, title, content, recurrence_kind, weekdays, month_days, start_date, end_date, author_id, created_at`

// RepeatScheduleRepository persists repeat schedule definitions.
type RepeatScheduleRepository struct {
	db *sqlx.DB
}

// NewRepeatScheduleRepository constructs the repository.
func NewRepeatScheduleRepository(db *sqlx.DB) *RepeatScheduleRepository {
	return &RepeatScheduleRepository{db: db}
}

func (r *RepeatScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts the definition using exec when inside a transaction.
func (r *RepeatScheduleRepository) Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.RepeatSchedule) error {
	if schedule == nil {
		return fmt.Errorf("repeat schedule payload is nil")
	}
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO repeat_schedules (` + repeatScheduleColumns + `)
VALUES (:id, :title, :content, :recurrence_kind, :weekdays, :month_days, :start_date, :end_date, :author_id, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, schedule); err != nil {
		if isForeignKeyViolation(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("insert repeat schedule: %w", err)
	}
	return nil
}

// FindByID returns a definition by identifier.
func (r *RepeatScheduleRepository) FindByID(ctx context.Context, id string) (*models.RepeatSchedule, error) {
	const query = `SELECT ` + repeatScheduleColumns + ` FROM repeat_schedules WHERE id = $1`
	var schedule models.RepeatSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find repeat schedule: %w", err)
	}
	return &schedule, nil
}

// ListSummaries returns every definition, newest first, with its generated notice count.
func (r *RepeatScheduleRepository) ListSummaries(ctx context.Context) ([]models.RepeatScheduleSummary, error) {
	const query = `SELECT s.id, s.title, s.content, s.recurrence_kind, s.weekdays, s.month_days, s.start_date, s.end_date, s.author_id, s.created_at,
COUNT(n.id) AS notice_count
FROM repeat_schedules s
LEFT JOIN day_notices n ON n.repeat_schedule_id = s.id
GROUP BY s.id
ORDER BY s.created_at DESC`
	summaries := make([]models.RepeatScheduleSummary, 0)
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("list repeat schedules: %w", err)
	}
	return summaries, nil
}
