package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zarlcorp/zsol/internal/ledger"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Endpoint != ledger.DevnetEndpoint {
		t.Errorf("endpoint = %q, want devnet default", cfg.Endpoint)
	}
	if cfg.DirectoryAccount == "" || cfg.ProgramID == "" {
		t.Error("defaults should fill account and program")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
endpoint = "http://localhost:8899"
directory_account = "LocalDirAcc"
program_id = "LocalProg"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Endpoint != "http://localhost:8899" {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.DirectoryAccount != "LocalDirAcc" || cfg.ProgramID != "LocalProg" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`endpoint = "http://localhost:8899"`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DirectoryAccount == "" || cfg.ProgramID == "" {
		t.Error("unset fields should keep defaults")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("endpoint = ["), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("malformed toml should fail")
	}
}
