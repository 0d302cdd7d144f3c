package database

import (
	"context"
	"database/sql"
	"time"
)

// DB wraps *sql.DB with transaction helpers shared by the services.
type DB struct {
	*sql.DB
}

func New(db *sql.DB) *DB {
	return &DB{db}
}

// Open connects to Postgres and verifies the connection.
func Open(url string) (*DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return New(db), nil
}

type TxFn func(*sql.Tx) error

// WithTransaction runs fn inside a transaction. The transaction is rolled
// back if fn returns an error or panics, otherwise committed. Every exit
// path releases the connection.
func (db *DB) WithTransaction(ctx context.Context, fn TxFn) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// SafeLimit clamps a caller-supplied limit. Zero or negative means "no
// explicit limit requested" and falls back to the maximum.
func SafeLimit(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}
