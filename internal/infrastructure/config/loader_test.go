package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	appconfig "github.com/arf/areacheck/internal/application/config"
	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/infrastructure/storage"
	"github.com/arf/areacheck/internal/pkg/logger"
)

func TestLoadWritesDefaultsWhenMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvConfigPath, "")

	loader := NewFileLoader("")
	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantPath := filepath.Join(home, ".areacheck", "config.yaml")
	if loader.Path() != wantPath {
		t.Fatalf("Path() = %q, want %q", loader.Path(), wantPath)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	if cfg.Service.Method != domain.MethodPost || cfg.Service.TimeoutSeconds != 10 {
		t.Fatalf("service = %+v", cfg.Service)
	}
	if diff := cmp.Diff(domain.DefaultXValues, cfg.Form.XValues); diff != "" {
		t.Fatalf("x values mismatch (-want +got):\n%s", diff)
	}
	if cfg.Form.YMin != -3 || cfg.Form.YMax != 5 || cfg.Form.DefaultR != 2 {
		t.Fatalf("form = %+v", cfg.Form)
	}
	if cfg.Storage.Path != filepath.Join(home, ".areacheck", "storage") {
		t.Fatalf("storage path = %q", cfg.Storage.Path)
	}
	if cfg.Storage.Key != domain.DefaultStorageKey {
		t.Fatalf("storage key = %q", cfg.Storage.Key)
	}
}

func TestLoadHydratesPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	raw := []byte("service:\n  endpoint: http://calc.local/api\n  method: get\nstorage:\n  backend: sqlite\n  path: " + dir + "\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.Endpoint != "http://calc.local/api" || cfg.Service.Method != domain.MethodGet {
		t.Fatalf("service = %+v", cfg.Service)
	}
	if cfg.Service.TimeoutSeconds != domain.DefaultTimeoutSeconds {
		t.Fatalf("timeout = %d", cfg.Service.TimeoutSeconds)
	}
	if cfg.Storage.Backend != domain.BackendSQLite || cfg.Storage.Path != dir {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if len(cfg.Form.RValues) != len(domain.DefaultRValues) || cfg.Graph.Unit != domain.DefaultGraphUnit {
		t.Fatalf("defaults not hydrated: %+v", cfg)
	}
}

func TestLoadNormalizesBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte("storage:\n  backend: \" SQLite \"\n  path: " + dir + "\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != domain.BackendSQLite {
		t.Fatalf("backend = %q, want %q", cfg.Storage.Backend, domain.BackendSQLite)
	}
	if err := appconfig.Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	store, err := storage.Open(context.Background(), cfg.Storage, logger.NewNop())
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	store.Close()
	if cfg.Server.MaxSessions != domain.DefaultMaxSessions {
		t.Fatalf("max sessions = %d", cfg.Server.MaxSessions)
	}
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	t.Setenv(EnvConfigPath, path)
	if got := NewFileLoader("").Path(); got != path {
		t.Fatalf("Path() = %q, want %q", got, path)
	}
	flag := filepath.Join(t.TempDir(), "flag.yaml")
	if got := NewFileLoader(flag).Path(); got != flag {
		t.Fatalf("explicit path ignored: %q", got)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("service: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInitAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	loader := NewFileLoader(path)

	if _, err := loader.Init(false); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := loader.Init(false); err == nil {
		t.Fatal("Init() must refuse to overwrite without force")
	}

	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Server.Listen = "0.0.0.0:9000"
	if err := loader.Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Server.Listen != "0.0.0.0:9000" {
		t.Fatalf("listen = %q", got.Server.Listen)
	}

	if _, err := loader.Init(true); err != nil {
		t.Fatalf("Init(force) error = %v", err)
	}
	got, _ = loader.Load(context.Background())
	if got.Server.Listen != domain.DefaultListenAddr {
		t.Fatalf("force init did not reset: %q", got.Server.Listen)
	}
}

func TestBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)
	if _, err := loader.Backup(); err == nil {
		t.Fatal("Backup() of a missing file must fail")
	}
	if _, err := loader.Init(false); err != nil {
		t.Fatal(err)
	}
	dest, err := loader.Backup()
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	orig, _ := os.ReadFile(path)
	copied, err := os.ReadFile(dest)
	if err != nil || string(orig) != string(copied) {
		t.Fatalf("backup content mismatch: %v", err)
	}
}
