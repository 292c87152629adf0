package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/pomedit/pkg/config"
)

func TestCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir(config.Default())
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, "pomedit"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = "/var/cache/pomedit"

	dir, err := cacheDir(cfg)
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != cfg.Cache.Dir {
		t.Errorf("cacheDir() = %q, want %q", dir, cfg.Cache.Dir)
	}
}
