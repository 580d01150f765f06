package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/pkg/logger"
	"github.com/arf/areacheck/internal/ports"
)

func exerciseStore(t *testing.T, store ports.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := store.Set(ctx, "k", []byte(`[1]`)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := store.Set(ctx, "k", []byte(`[2,1]`)); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != `[2,1]` {
		t.Fatalf("Get = %s, want [2,1]", got)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("second Delete error: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get after delete error = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory(0))
}

func TestMemoryStoreQuota(t *testing.T) {
	store := NewMemory(4)
	ctx := context.Background()
	if err := store.Set(ctx, "k", []byte("1234")); err != nil {
		t.Fatalf("Set within quota: %v", err)
	}
	if err := store.Set(ctx, "k", []byte("12345")); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("Set over quota error = %v", err)
	}
	got, _ := store.Get(ctx, "k")
	if string(got) != "1234" {
		t.Fatalf("value after refused write = %q", got)
	}
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := NewFileStore(dir)
	exerciseStore(t, store)

	if err := store.Set(context.Background(), "a/b", []byte("x")); err != nil {
		t.Fatalf("Set with slash in key: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one file without temp leftovers, got %d", len(entries))
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("AREACHECK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("AREACHECK_TEST_POSTGRES_DSN not set")
	}
	store, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	log := logger.NewNop()

	tests := []struct {
		backend string
		check   func(ports.KeyValueStore) bool
	}{
		{backend: domain.BackendMemory, check: func(s ports.KeyValueStore) bool { _, ok := s.(*Memory); return ok }},
		{backend: domain.BackendFile, check: func(s ports.KeyValueStore) bool { _, ok := s.(*FileStore); return ok }},
		{backend: "", check: func(s ports.KeyValueStore) bool { _, ok := s.(*FileStore); return ok }},
		{backend: domain.BackendSQLite, check: func(s ports.KeyValueStore) bool { _, ok := s.(*SQLiteStore); return ok }},
	}
	for _, tt := range tests {
		store, err := Open(ctx, domain.StorageSettings{Backend: tt.backend, Path: dir}, log)
		if err != nil {
			t.Fatalf("Open(%q) error: %v", tt.backend, err)
		}
		if !tt.check(store) {
			t.Fatalf("Open(%q) returned %T", tt.backend, store)
		}
		store.Close()
	}

	if _, err := Open(ctx, domain.StorageSettings{Backend: "redis"}, log); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
