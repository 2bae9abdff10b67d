package calllog

import (
	"context"
	"path/filepath"
	"testing"

	"callsim/internal/config"
)

func TestOpenBackend_LocalDrivers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cases := []config.StorageConfig{
		{Driver: config.DriverMemory},
		{Driver: config.DriverFile, Path: filepath.Join(dir, "files")},
		{Driver: config.DriverSQLite, Path: filepath.Join(dir, "calls.db")},
	}
	for _, sc := range cases {
		b, closeFn, err := OpenBackend(ctx, &config.Config{Storage: sc})
		if err != nil {
			t.Fatalf("%s: open: %v", sc.Driver, err)
		}
		exerciseBackend(t, b)
		if err := closeFn(); err != nil {
			t.Fatalf("%s: close: %v", sc.Driver, err)
		}
	}
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	_, closeFn, err := OpenBackend(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "tape"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if closeFn == nil {
		t.Fatalf("close func must never be nil")
	}
}
