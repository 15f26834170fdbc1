package services

import (
	"context"
	"database/sql"

	"github.com/jamietsang/courtlog/repositories"
)

// Tx is the transaction surface the write paths need: query execution plus
// commit/rollback. *sql.Tx satisfies it.
type Tx interface {
	repositories.SQLExecutor
	Commit() error
	Rollback() error
}

// TxBeginner starts transactions. Production code wraps *sql.DB via
// NewTxBeginner; tests substitute an in-memory implementation.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

type sqlTxBeginner struct {
	db *sql.DB
}

func NewTxBeginner(db *sql.DB) TxBeginner {
	return &sqlTxBeginner{db: db}
}

func (b *sqlTxBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return b.db.BeginTx(ctx, opts)
}
