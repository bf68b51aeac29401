package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-cli/internal/config"
	"github.com/rocketscienceinc/tictactoe-cli/internal/repository"
	"github.com/rocketscienceinc/tictactoe-cli/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-cli/internal/transport/cli"
	"github.com/rocketscienceinc/tictactoe-cli/internal/usecase"
)

const exitInterrupted = 130

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	logger = logger.With("session", uuid.NewString())
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()

		// prompts block on stdin; every accepted move is already committed
		os.Exit(exitInterrupted)
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	gameRepo := repository.NewGameRepository(sqliteStorage.Connection)

	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			log.Warn("redis unavailable, running without game cache", "addr", conf.Redis.GetRedisAddr(), "error", err)
		} else {
			defer func() {
				if err := redisStorage.Close(); err != nil {
					log.Error("could not close redis storage", "error", err)
				}
			}()

			gameRepo = repository.NewCachedGameRepository(logger, gameRepo, redisStorage.Connection, conf.Redis.TTL)
		}
	}

	gameManager := usecase.NewGameManager(logger, gameRepo)

	return cli.NewRootCommand(gameManager).ExecuteContext(ctx)
}
