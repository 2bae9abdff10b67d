package calllog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"callsim/pkg/utils"
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := b.Get(ctx, DefaultKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := b.Set(ctx, DefaultKey, []byte(`[1]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := b.Set(ctx, DefaultKey, []byte(`[2]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := b.Get(ctx, DefaultKey)
	if err != nil || string(got) != `[2]` {
		t.Fatalf("expected [2], got %q %v", got, err)
	}
	if err := b.Delete(ctx, DefaultKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := b.Delete(ctx, DefaultKey); err != nil {
		t.Fatalf("delete of absent key: %v", err)
	}
	if _, err := b.Get(ctx, DefaultKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "logs"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	exerciseBackend(t, b)

	if _, err := NewFileBackend(""); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestSQLBackend_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := utils.OpenSQLite(ctx, filepath.Join(t.TempDir(), "calls.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	b := NewSQLBackend(db, DialectSQLite)
	if err := b.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if err := b.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema is not idempotent: %v", err)
	}
	exerciseBackend(t, b)
}

func TestRedisBackend_NilClient(t *testing.T) {
	b := NewRedisBackend(nil, "callsim:")
	if _, err := b.Get(context.Background(), DefaultKey); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if err := b.Set(context.Background(), DefaultKey, nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
