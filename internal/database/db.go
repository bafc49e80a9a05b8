package database

import "context"

// Queryer is the query surface shared by the pool and an open transaction.
// Repositories whose writes must land inside a caller-owned transaction take
// a Queryer argument; the usecase decides the transaction boundary.
type Queryer interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

type DB interface {
	Queryer

	Ping(ctx context.Context) error
	Close() error

	Begin(ctx context.Context) (Tx, error)
}

type Tx interface {
	Queryer

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}
