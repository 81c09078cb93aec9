package main

import (
	"fmt"
	"strings"

	"github.com/armada-sim/simcore/internal/config"
	"github.com/armada-sim/simcore/internal/database"
	"github.com/armada-sim/simcore/internal/storage"
	gormstorage "github.com/armada-sim/simcore/internal/storage/gorm"
	"github.com/armada-sim/simcore/internal/storage/memory"
	sqlitestorage "github.com/armada-sim/simcore/internal/storage/sqlite"
	wsstorage "github.com/armada-sim/simcore/internal/storage/websocket"
	"gorm.io/gorm"
)

func (a *app) initStorage() error {
	storageCfg := config.GetStorageConfig()

	backend, err := a.createStorageBackend(storageCfg)
	if err != nil {
		a.logger.Error("Failed to create storage backend", "error", err)
		return err
	}
	if err := backend.Init(); err != nil {
		a.logger.Error("Failed to initialize storage backend", "type", storageCfg.Type, "error", err)
		return err
	}
	a.backend = backend
	return nil
}

func (a *app) createStorageBackend(storageCfg config.StorageConfig) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		dbm := database.NewManager(a.zlog)
		if err := dbm.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect database: %w", err)
		}
		if dbm.ShouldSaveLocal {
			a.logger.Warn("Postgres unavailable, recording to in-memory SQLite", "dumpDir", storageCfg.SQLite.DumpDir)
			return a.sqliteBackend(storageCfg, dbm)
		}
		a.logger.Info("Postgres storage backend initialized")
		return gormstorage.New(gormstorage.Dependencies{
			DB:            dbm.DB,
			LogManager:    a.slogMgr,
			FlushInterval: storageCfg.FlushInterval,
		}), nil

	case "sqlite":
		return a.sqliteBackend(storageCfg, nil)

	case "websocket":
		a.logger.Info("WebSocket storage backend initialized", "url", storageCfg.Websocket.URL)
		return wsstorage.New(wsstorage.Config{
			URL:    httpToWS(storageCfg.Websocket.URL),
			Secret: storageCfg.Websocket.Secret,
			Logger: a.logger,
		}), nil

	case "memory", "":
		a.logger.Info("Memory storage backend initialized", "outputDir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}

func (a *app) sqliteBackend(storageCfg config.StorageConfig, dbm *database.Manager) (storage.Backend, error) {
	cfg := sqlitestorage.Config{
		DumpInterval:  storageCfg.SQLite.DumpInterval,
		DumpDir:       storageCfg.SQLite.DumpDir,
		FlushInterval: storageCfg.FlushInterval,
	}
	var db *gorm.DB
	if dbm != nil {
		db = dbm.DB
	}
	backend, err := sqlitestorage.New(cfg, db, a.slogMgr)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
	}
	a.logger.Info("SQLite storage backend initialized", "dumpDir", cfg.DumpDir)
	return backend, nil
}

// httpToWS converts an http(s) URL to ws(s). Other schemes pass through.
func httpToWS(url string) string {
	if strings.HasPrefix(url, "https://") {
		return "wss://" + strings.TrimPrefix(url, "https://")
	}
	if strings.HasPrefix(url, "http://") {
		return "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url
}
