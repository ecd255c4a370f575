package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
