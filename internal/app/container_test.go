package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arf/areacheck/internal/application/page"
)

func TestBuildContainerAndSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := "storage:\n  backend: memory\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	c, err := BuildContainer(ctx, Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("BuildContainer() error = %v", err)
	}
	defer c.Close()

	if c.ConfigLoader.Path() != path {
		t.Fatalf("config path = %q", c.ConfigLoader.Path())
	}

	sess, err := c.NewSession("/")
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	mode, err := sess.Controller.Start(ctx, nil)
	if err != nil || mode != page.RestoreHydrate {
		t.Fatalf("Start() = %v, %v", mode, err)
	}
	if len(sess.Graph.XTicks.Elements()) == 0 {
		t.Fatal("default radius ticks not drawn")
	}

	other, err := c.NewSession("/")
	if err != nil {
		t.Fatal(err)
	}
	if other.Controller.Snapshot().SessionID == sess.Controller.Snapshot().SessionID {
		t.Fatal("sessions share an id")
	}
}

func TestBuildContainerRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: redis\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := BuildContainer(context.Background(), Options{ConfigPath: path}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
