package calllog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"callsim/pkg/utils"
)

// Dialect holds the placeholder style of a database/sql driver.
type Dialect struct {
	Name string
	bind func(n int) string
}

var (
	DialectPostgres = Dialect{Name: "postgres", bind: func(n int) string { return fmt.Sprintf("$%d", n) }}
	DialectSQLite   = Dialect{Name: "sqlite", bind: func(int) string { return "?" }}
)

// SQLBackend keeps each key as one row of a key/value table.
// The upsert replaces the whole serialized log in a single statement.
//
// Expected schema (created by EnsureSchema):
//
//	call_log_kv(key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TIMESTAMP NOT NULL)
type SQLBackend struct {
	db      *sql.DB
	dialect Dialect
	clock   func() time.Time
}

func NewSQLBackend(db *sql.DB, dialect Dialect) *SQLBackend {
	return &SQLBackend{db: db, dialect: dialect, clock: time.Now}
}

func (b *SQLBackend) EnsureSchema(ctx context.Context) error {
	if b.db == nil {
		return errors.New("calllog: sql backend has no db")
	}
	return utils.WithTx(ctx, b.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const q = `
CREATE TABLE IF NOT EXISTS call_log_kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`
		_, err := tx.ExecContext(ctx, q)
		return err
	})
}

func (b *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	q := `SELECT value FROM call_log_kv WHERE key = ` + b.dialect.bind(1)
	var v string
	if err := b.db.QueryRowContext(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(v), nil
}

func (b *SQLBackend) Set(ctx context.Context, key string, value []byte) error {
	q := fmt.Sprintf(`
INSERT INTO call_log_kv (key, value, updated_at)
VALUES (%s, %s, %s)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`, b.dialect.bind(1), b.dialect.bind(2), b.dialect.bind(3))
	_, err := b.db.ExecContext(ctx, q, key, string(value), b.clock().UTC())
	return err
}

func (b *SQLBackend) Delete(ctx context.Context, key string) error {
	q := `DELETE FROM call_log_kv WHERE key = ` + b.dialect.bind(1)
	_, err := b.db.ExecContext(ctx, q, key)
	return err
}
