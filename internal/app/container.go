// Package app assembles the application: configuration, the key pool,
// the cache, the upstream client, and the services built on top of them.
package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/infrastructure/cache"
	"github.com/doeshing/exa-go/internal/infrastructure/config"
	"github.com/doeshing/exa-go/internal/infrastructure/exa"
	"github.com/doeshing/exa-go/internal/infrastructure/history"
	"github.com/doeshing/exa-go/internal/infrastructure/keys"
	"github.com/doeshing/exa-go/internal/infrastructure/reqlog"
	"github.com/doeshing/exa-go/internal/pkg/logger"
	"github.com/doeshing/exa-go/internal/ports"
	"github.com/doeshing/exa-go/internal/services"
)

// EnvLogRequests enables the per-request JSON log when set to "1".
const EnvLogRequests = "EXA_LOG_REQUESTS"

// Container holds every constructed dependency for the CLI layer.
type Container struct {
	Config     domain.Config
	ConfigDir  string
	Logger     *logger.StdLogger
	Keys       *keys.Manager
	Cache      *cache.FileCache
	Client     ports.UpstreamClient
	Dispatcher *services.Dispatcher
	Research   *services.ResearchService
	Validator  *services.Validator
	History    ports.HistoryRepository
}

// BuildContainer wires the dependency graph bottom-up. Key loading is the
// only hard failure; everything else degrades or falls back to defaults.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	log := logger.NewStd(verbose)

	loader := config.NewFileLoader("")
	cfg, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	dir := config.Dir()

	pool, err := keys.LoadPool()
	if err != nil {
		return nil, err
	}

	manager := keys.NewManager(pool, keys.NewStateStore(dir, log), log)
	manager.SetCooldown(time.Duration(cfg.API.DefaultCooldownSeconds) * time.Second)

	requestLog := reqlog.New(dir, os.Getenv(EnvLogRequests) == "1")
	client := exa.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, requestLog)
	store := cache.New(filepath.Join(dir, "cache"), cfg.Cache.MaxEntries, log)

	dispatcher := &services.Dispatcher{Keys: manager, Cache: store, Log: log}

	return &Container{
		Config:     cfg,
		ConfigDir:  dir,
		Logger:     log,
		Keys:       manager,
		Cache:      store,
		Client:     client,
		Dispatcher: dispatcher,
		Research: &services.ResearchService{
			Dispatcher:   dispatcher,
			Client:       client,
			Keys:         manager,
			Log:          log,
			PollInterval: time.Duration(cfg.Research.PollSeconds) * time.Second,
			Timeout:      time.Duration(cfg.Research.TimeoutMinutes) * time.Minute,
		},
		Validator: &services.Validator{Client: client, Keys: manager, Log: log},
		History:   history.NewSQLiteStore(dir),
	}, nil
}
