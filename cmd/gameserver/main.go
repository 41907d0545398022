// Package main provides the Kaizo Quest server: a Telnet-served creature
// battler backed by PostgreSQL.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/kaizoquest/kaizoquest/internal/config"
	"github.com/kaizoquest/kaizoquest/internal/frontend/handlers"
	"github.com/kaizoquest/kaizoquest/internal/frontend/telnet"
	"github.com/kaizoquest/kaizoquest/internal/game/ai"
	"github.com/kaizoquest/kaizoquest/internal/game/rng"
	"github.com/kaizoquest/kaizoquest/internal/game/world"
	"github.com/kaizoquest/kaizoquest/internal/observability"
	"github.com/kaizoquest/kaizoquest/internal/server"
	"github.com/kaizoquest/kaizoquest/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting Kaizo Quest",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.String("world_file", cfg.Game.WorldFile),
	)

	// Load world content
	worldStart := time.Now()
	w, err := world.LoadFromFile(cfg.Game.WorldFile)
	if err != nil {
		logger.Fatal("loading world", zap.Error(err))
	}
	logger.Info("world loaded",
		zap.Int("species", len(w.Species)),
		zap.Int("actions", w.Actions.Len()),
		zap.Int("padding", w.Actions.Padding()),
		zap.Duration("elapsed", time.Since(worldStart)),
	)

	// Connect to PostgreSQL
	ctx := context.Background()
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Name),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	// Build services
	src := rng.NewCryptoSource()
	accounts := postgres.NewAccountRepository(pool.DB())
	characters := postgres.NewCharacterRepository(pool.DB())
	gameHandler := handlers.NewGameHandler(characters, w, ai.Random{Src: src}, src, cfg.Game.StartingLevel, logger)
	authHandler := handlers.NewAuthHandler(accounts, gameHandler, logger)
	telnetAcceptor := telnet.NewAcceptor(cfg.Telnet, authHandler, logger)

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			for {
				time.Sleep(30 * time.Second)
				if err := pool.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
				}
			}
		},
		StopFn: func() {
			pool.Close()
		},
	})

	lifecycle.Add("telnet", &server.FuncService{
		StartFn: func() error {
			return telnetAcceptor.ListenAndServe()
		},
		StopFn: func() {
			telnetAcceptor.Stop()
		},
	})

	logger.Info("server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Int("starting_level", cfg.Game.StartingLevel),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("shutdown complete", zap.Duration("uptime", time.Since(start)))
}
