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

const todoColumns = `id, task, receive_request, check_yn, user_id, created_at`

// TodoRepository persists the shared staff todo list.
type TodoRepository struct {
	db *sqlx.DB
}

// NewTodoRepository constructs the repository.
func NewTodoRepository(db *sqlx.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// Create inserts a todo.
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	if todo.ID == "" {
		todo.ID = uuid.NewString()
	}
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO todos (` + todoColumns + `) VALUES (:id, :task, :receive_request, :check_yn, :user_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, todo); err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

// FindByID returns a todo by identifier.
func (r *TodoRepository) FindByID(ctx context.Context, id string) (*models.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	var todo models.Todo
	if err := r.db.GetContext(ctx, &todo, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return &todo, nil
}

// UpdateCheck sets the checked flag of a todo.
func (r *TodoRepository) UpdateCheck(ctx context.Context, id string, checked bool) error {
	const query = `UPDATE todos SET check_yn = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, checked)
	if err != nil {
		return fmt.Errorf("update todo check: %w", err)
	}
	return expectAffected(res)
}

// List returns every todo, unchecked first and newest first within each group.
func (r *TodoRepository) List(ctx context.Context) ([]models.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos ORDER BY check_yn ASC, created_at DESC`
	todos := make([]models.Todo, 0)
	if err := r.db.SelectContext(ctx, &todos, query); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Delete removes a todo.
func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM todos WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return expectAffected(res)
}
