package testutil

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/infrastructure/mysql"
)

// FakeTx records commit and rollback calls. Its query methods are never meant
// to reach a database; repositories under test are mocked.
type FakeTx struct {
	CommitErr error
	Commits   int
	Rollbacks int
	BeginOpts *sql.TxOptions
}

func (tx *FakeTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, errors.New("FakeTx: ExecContext not supported")
}

func (tx *FakeTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, errors.New("FakeTx: QueryContext not supported")
}

func (tx *FakeTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func (tx *FakeTx) Commit() error {
	tx.Commits++
	return tx.CommitErr
}

func (tx *FakeTx) Rollback() error {
	tx.Rollbacks++
	return nil
}

// FakeTxManager hands out Tx and counts how many transactions were opened.
type FakeTxManager struct {
	Tx       *FakeTx
	BeginErr error
	Begins   int
}

func (m *FakeTxManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (mysql.Tx, error) {
	m.Begins++
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	if m.Tx == nil {
		m.Tx = &FakeTx{}
	}
	m.Tx.BeginOpts = opts
	return m.Tx, nil
}
