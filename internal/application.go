package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/rest"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	store, closeStore, err := openStore(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStore(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	log.Info("storage ready", "driver", conf.Storage.Driver)

	hub := websocket.NewHub(logger)
	gameRepo := repository.NewGameRepository(store)
	gameManager := usecase.NewGameManager(logger, gameRepo, hub)

	wsServer := websocket.New(logger, gameManager, hub, rest.AllowedOrigin(conf.AllowedOrigins))
	httpServer := rest.New(logger, gameManager, wsServer, conf.AllowedOrigins)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err = httpServer.Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// openStore - builds the configured storage driver and the function releasing it.
func openStore(ctx context.Context, conf *config.Config) (repository.Store, func() error, error) {
	noop := func() error { return nil }

	switch conf.Storage.Driver {
	case config.DriverMemory:
		return storage.NewMemoryStore(), noop, nil
	case config.DriverFile:
		return storage.NewFileStore(conf.Storage.FilePath), noop, nil
	case config.DriverRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		conn, err := storage.NewRedisClient(ctx, redisAddrString, conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		redisStore := storage.NewRedisStore(conn, conf.Redis.Key)

		return redisStore, redisStore.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, conf.Storage.Driver)
	}
}
