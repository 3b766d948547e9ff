package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zhandos-t/ridelink/config"
	httpserver "github.com/zhandos-t/ridelink/internal/adapter/http/server"
	wshandler "github.com/zhandos-t/ridelink/internal/adapter/http/ws"
	"github.com/zhandos-t/ridelink/internal/adapter/identity"
	"github.com/zhandos-t/ridelink/internal/adapter/postgres"
	rabbitadapter "github.com/zhandos-t/ridelink/internal/adapter/rabbit"
	"github.com/zhandos-t/ridelink/internal/adapter/redispresence"
	authsvc "github.com/zhandos-t/ridelink/internal/service/auth"
	driversvc "github.com/zhandos-t/ridelink/internal/service/driver"
	ridesvc "github.com/zhandos-t/ridelink/internal/service/ride"
	"github.com/zhandos-t/ridelink/pkg/logger"
	postgresclient "github.com/zhandos-t/ridelink/pkg/postgres"
	"github.com/zhandos-t/ridelink/pkg/rabbit"
	"github.com/zhandos-t/ridelink/pkg/redisclient"
	"github.com/zhandos-t/ridelink/pkg/trm"
	ws "github.com/zhandos-t/ridelink/pkg/wsHub"
)

// App owns every long-lived resource: the connection pools, the WebSocket
// hub and the HTTP server. Start blocks until a shutdown signal or a fatal
// server error.
type App struct {
	postgresDB *postgresclient.PostgreDB
	redisDB    *redis.Client
	rabbitMQ   *rabbit.RabbitMQ
	hub        *ws.Hub
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	mq, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		db.Close()
		_ = rdb.Close()
		return nil, err
	}

	// repositories
	userRepo := postgres.NewUserRepo(db.Pool)
	driverRepo := postgres.NewDriverRepo(db.Pool)
	rideRepo := postgres.NewRideRepo(db.Pool)

	txManager := trm.New(db.Pool)

	// adapters
	identityClient := identity.New(cfg.Identity.BaseURL, cfg.Identity.ServiceKey)
	presence := redispresence.New(rdb, cfg.Presence.TTL)

	eventFeed, err := rabbitadapter.NewRideEventPublisher(mq, log, cfg.ServiceName)
	if err != nil {
		db.Close()
		_ = rdb.Close()
		_ = mq.Close()
		return nil, err
	}

	hub := ws.NewHub(log)
	broadcaster := wshandler.NewBroadcaster(hub, log, cfg.ServiceName)

	// services
	authService := authsvc.NewService(identityClient, userRepo, driverRepo, txManager, cfg.Auth.JWTSecret, log)
	rideService := ridesvc.NewService(rideRepo, broadcaster, eventFeed, txManager, log, cfg.ServiceName)
	driverService := driversvc.NewService(driverRepo, presence, log)

	server, err := httpserver.New(cfg, authService, rideService, driverService, hub, authService, log)
	if err != nil {
		db.Close()
		_ = rdb.Close()
		_ = mq.Close()
		return nil, err
	}

	return &App{
		postgresDB: db,
		redisDB:    rdb,
		rabbitMQ:   mq,
		hub:        hub,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "application closed")
	}()

	errCh := make(chan error, 1)
	a.httpServer.Run(ctx, errCh)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "application started", "service", a.cfg.ServiceName)
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	a.hub.Close()

	if err := a.rabbitMQ.Close(); err != nil {
		a.log.Warn(ctx, "failed to close RabbitMQ", "err", err.Error())
	}

	if err := a.redisDB.Close(); err != nil {
		a.log.Warn(ctx, "failed to close Redis", "err", err.Error())
	}

	a.postgresDB.Close()
}
