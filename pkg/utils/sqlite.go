package utils

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteDriver is the database/sql name registered by modernc.org/sqlite.
const SQLiteDriver = "sqlite"

// OpenSQLite opens (and creates if needed) an on-device SQLite database.
// A single connection serializes writers, which SQLite requires anyway.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	return openSQL(ctx, SQLiteDriver, dsn, PoolConfig{MaxOpenConns: 1})
}
