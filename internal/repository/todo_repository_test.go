package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoRepositoryListOrdering(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTodoRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM todos ORDER BY check_yn ASC, created_at DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task", "receive_request", "check_yn", "user_id", "created_at"}).
			AddRow("t-2", "소등 점검", "사감", false, "u-1", now).
			AddRow("t-1", "세탁실 점검", "", true, "u-1", now.Add(-time.Hour)))

	todos, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.False(t, todos[0].CheckYn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepositoryUpdateCheck(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTodoRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE todos SET check_yn = $2 WHERE id = $1")).
		WithArgs("t-1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateCheck(context.Background(), "t-1", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}
