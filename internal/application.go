package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	engine := NewEngine(logger, conf.Engine)
	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Redis.GameTTL)
	botService := service.NewBotService(engine)
	gameManager := usecase.NewGameManager(logger, gameRepo, botService)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)

	if err = rest.New(logger, gameManager, engine).Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// NewEngine builds the search engine from its configuration section.
func NewEngine(logger *slog.Logger, conf config.Engine) *tictactoe.Engine {
	opts := []tictactoe.Option{
		tictactoe.WithRandomOpening(!conf.FixedOpening),
		tictactoe.WithParallel(conf.Parallel),
	}

	if conf.Seed != 0 {
		opts = append(opts, tictactoe.WithChooser(rand.New(rand.NewSource(conf.Seed)))) //nolint: gosec // move variety only
	}

	return tictactoe.NewEngine(logger, opts...)
}
