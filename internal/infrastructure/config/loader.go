// Package config loads the YAML configuration and resolves the per-user
// state directory shared by the cache, rotation state, and logs.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/ports"
)

// FileLoader loads YAML configuration from <config dir>/config.yaml
// (overridable via EXA_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created with
// defaults on first run.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("EXA_CONFIG"); custom != "" {
		return custom
	}
	return filepath.Join(Dir(), "config.yaml")
}

// Dir resolves the per-user state directory: EXA_CONFIG_DIR when set, else
// the OS config dir, else ~/.config/exa.
func Dir() string {
	if custom := os.Getenv("EXA_CONFIG_DIR"); custom != "" {
		return custom
	}
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "exa")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "exa")
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

func defaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		API: domain.APISettings{
			BaseURL:                "https://api.exa.ai",
			TimeoutSeconds:         30,
			DefaultCooldownSeconds: 60,
		},
		Cache: domain.CacheSettings{
			TTLMinutes: domain.DefaultCacheTTLMinutes,
			MaxEntries: domain.MaxCacheEntries,
		},
		Research: domain.ResearchSettings{
			PollSeconds:    5,
			TimeoutMinutes: 15,
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	def := defaultConfig()
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = def.API.BaseURL
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	if cfg.API.DefaultCooldownSeconds <= 0 {
		cfg.API.DefaultCooldownSeconds = def.API.DefaultCooldownSeconds
	}
	if cfg.Cache.TTLMinutes <= 0 {
		cfg.Cache.TTLMinutes = def.Cache.TTLMinutes
	}
	if cfg.Cache.MaxEntries <= 0 {
		cfg.Cache.MaxEntries = def.Cache.MaxEntries
	}
	if cfg.Research.PollSeconds <= 0 {
		cfg.Research.PollSeconds = def.Research.PollSeconds
	}
	if cfg.Research.TimeoutMinutes <= 0 {
		cfg.Research.TimeoutMinutes = def.Research.TimeoutMinutes
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
