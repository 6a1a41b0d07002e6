package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	defaults := Default("/tmp/tavle.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.Sort != SortPriority {
		t.Fatalf("default sort = %q, want %q", cfg.Board.Sort, SortPriority)
	}
	if cfg.Database.Path != "/tmp/tavle.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[board]
sort = "updated"
show_labels = false

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, Default("/tmp/tavle.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.Sort != SortUpdated {
		t.Fatalf("sort = %q, want updated", cfg.Board.Sort)
	}
	if cfg.Board.ShowLabels {
		t.Fatal("show_labels should be overridden to false")
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default("/tmp/tavle.db")
	cfg.Board.Sort = "alphabetical"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected invalid board.sort error")
	}

	cfg = Default("/tmp/tavle.db")
	cfg.Server.MCPEndpoint = cfg.Server.APIEndpoint
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected endpoint collision error")
	}

	cfg = Default("")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing database path error")
	}
}
