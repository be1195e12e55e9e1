package main

import (
	"fmt"
	"log"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/config"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/database"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/router"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/store"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// load configuration; missing store credentials abort here
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	// local database: operator accounts, and the catalog/ledger tables
	// when the sqlite driver is selected
	db, err := database.Init(cfg.Store)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	var st store.Store
	switch cfg.Store.Driver {
	case "rest":
		st = store.NewRestStore(cfg.Store.Endpoint, cfg.Store.Key)
	case "sqlite":
		st = store.NewGormStore(db)
	}

	r := router.SetupRouter(cfg, db, st, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr), zap.String("store_driver", cfg.Store.Driver))
	if err := r.Run(addr); err != nil {
		logger.Fatal("run server", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
