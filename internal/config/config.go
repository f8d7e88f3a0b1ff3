// Package config loads the client configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/zarlcorp/zsol/internal/ledger"
	"github.com/zarlcorp/zsol/internal/sol"
)

// Config holds everything needed to reach the directory account.
type Config struct {
	Endpoint         string
	DirectoryAccount sol.Address
	ProgramID        sol.Address
}

const defaultConfigPath = "~/.config/zsol/config.toml"

// Well-known devnet deployment, overridable per file.
const (
	defaultDirectoryAccount = "BMSoLDirAcc1111111111111111111111111111111"
	defaultProgramID        = "BMSoLProg1111111111111111111111111111111111"
)

// Load reads the config file, falling back to the devnet deployment when
// the file is absent.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Endpoint:         ledger.DevnetEndpoint,
		DirectoryAccount: defaultDirectoryAccount,
		ProgramID:        defaultProgramID,
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Endpoint         string `toml:"endpoint"`
		DirectoryAccount string `toml:"directory_account"`
		ProgramID        string `toml:"program_id"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(raw.DirectoryAccount); v != "" {
		cfg.DirectoryAccount = sol.Address(v)
	}
	if v := strings.TrimSpace(raw.ProgramID); v != "" {
		cfg.ProgramID = sol.Address(v)
	}

	return cfg, nil
}

// LedgerConfig converts to a ledger.Config for client construction.
func (c Config) LedgerConfig() ledger.Config {
	return ledger.Config{
		Endpoint:         c.Endpoint,
		DirectoryAccount: c.DirectoryAccount,
		ProgramID:        c.ProgramID,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return home + path[1:], nil
}
