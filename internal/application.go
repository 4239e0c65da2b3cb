package application

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/seega-backend/internal/config"
	"github.com/rocketscienceinc/seega-backend/internal/repository"
	"github.com/rocketscienceinc/seega-backend/internal/repository/storage"
	"github.com/rocketscienceinc/seega-backend/internal/usecase"
	"github.com/rocketscienceinc/seega-backend/transport/rest"
	"github.com/rocketscienceinc/seega-backend/transport/tcp"
	"github.com/rocketscienceinc/seega-backend/transport/websocket"
)

// RunApp - runs one game and returns once it is over or a shutdown signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	playerRepo, gameRepo, closeStorage, err := initRepositories(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeStorage(); closeErr != nil {
			log.Error("could not close storage", "error", closeErr)
		}
	}()

	coordinator := usecase.NewCoordinator(logger, playerRepo, gameRepo,
		usecase.WithForfeitOnDisconnect(conf.ForfeitOnDisconnect()))

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// run TCP server
	tcpErrCh := make(chan error, 1)
	go func() {
		tcpErrCh <- tcp.New(logger, coordinator, conf.WriteTimeout, conf.SendBuffer).Start(serveCtx, conf.TCPAddr())
	}()

	// run HTTP server with the WebSocket endpoint
	wsServer := websocket.New(logger, coordinator, conf.WriteTimeout, conf.SendBuffer)
	httpErrCh := make(chan error, 1)
	go func() {
		httpErrCh <- rest.New(logger, wsServer).Start(serveCtx, conf.HTTPAddr())
	}()

	select {
	case err = <-tcpErrCh:
		return stopped("TCP", err)
	case err = <-httpErrCh:
		return stopped("HTTP", err)
	case <-coordinator.Done():
		log.Info("Game over, shutting down")
	case <-ctx.Done():
		log.Info("Received signal, shutting down")
	}

	cancel()

	// wait for both servers so queued messages reach the clients
	if err = <-tcpErrCh; err != nil {
		log.Error("TCP server stopped with error", "error", err)
	}

	if err = <-httpErrCh; err != nil {
		log.Error("HTTP server stopped with error", "error", err)
	}

	return nil
}

func stopped(name string, err error) error {
	if err != nil {
		return fmt.Errorf("%s server error: %w", name, err)
	}

	return nil
}

func initRepositories(ctx context.Context, conf *config.Config) (repository.PlayerRepository, repository.GameRepository, func() error, error) {
	if conf.Storage.Driver != config.StorageRedis {
		return repository.NewMemoryPlayerRepository(), repository.NewMemoryGameRepository(), func() error { return nil }, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, storage.RedisOptions{
		Addr:     conf.Redis.GetRedisAddr(),
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	playerRepo := repository.NewPlayerRepository(redisStorage.Connection, conf.Redis.TTL)
	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Redis.TTL)

	return playerRepo, gameRepo, redisStorage.Close, nil
}
