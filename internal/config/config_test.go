package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Keywords != DefaultKeywords {
		t.Errorf("Expected default keywords, got %+v", cfg.Keywords)
	}
	if cfg.GitHub.State != "all" || cfg.GitHub.Timeout != 30*time.Second {
		t.Errorf("Unexpected github defaults: %+v", cfg.GitHub)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `github:
  owner: acme
  repo: product
  timeout: 5s
keywords:
  start_date: "Start:"
  due_date: "Due:"
server:
  sort_by: start_date
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GitHub.Owner != "acme" || cfg.GitHub.Repo != "product" {
		t.Errorf("Expected acme/product, got %s/%s", cfg.GitHub.Owner, cfg.GitHub.Repo)
	}
	if cfg.GitHub.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %s", cfg.GitHub.Timeout)
	}
	if cfg.Keywords.StartDate != "Start:" || cfg.Keywords.DueDate != "Due:" {
		t.Errorf("Unexpected keywords %+v", cfg.Keywords)
	}
	// Untouched keys keep their defaults
	if cfg.Keywords.Label != DefaultKeywords.Label {
		t.Errorf("Expected default label prefix, got %q", cfg.Keywords.Label)
	}
	if cfg.Server.SortBy != "start_date" {
		t.Errorf("Expected sort_by start_date, got %q", cfg.Server.SortBy)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("github: [unclosed"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Expected parse error")
	}
}

func TestTokenFromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("github:\n  token: file-token\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GitHub.Token != "env-token" {
		t.Errorf("Expected env token, got %q", cfg.GitHub.Token)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.GitHub.Owner = "acme"
	cfg.GitHub.Repo = "product"
	cfg.Database.DSN = "/tmp/x.db"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600, got %v", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.GitHub.Owner != "acme" || loaded.Database.DSN != "/tmp/x.db" {
		t.Errorf("Round trip lost values: %+v", loaded)
	}
	if loaded.GitHub.Timeout != cfg.GitHub.Timeout {
		t.Errorf("Expected timeout %s, got %s", cfg.GitHub.Timeout, loaded.GitHub.Timeout)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GitHub.Owner = ""
	cfg.GitHub.Repo = ""
	cfg.GitHub.State = "merged"
	cfg.Database.Driver = "mysql"
	cfg.Server.SortBy = "title"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	for _, want := range []string{"github.owner", "github.repo", "github.state", "database.driver", "server.sort_by"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got %v", want, err)
		}
	}
}

func TestGitHubOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GitHub.Owner = "acme"
	cfg.GitHub.Repo = "product"
	cfg.GitHub.PerPage = 50

	opts := cfg.GitHubOptions()
	if opts.Owner != "acme" || opts.Repo != "product" || opts.PerPage != 50 {
		t.Errorf("Unexpected options %+v", opts)
	}
}
