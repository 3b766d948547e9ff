package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zhandos-t/ridelink/config"
	"github.com/zhandos-t/ridelink/internal/adapter/http/handler"
	"github.com/zhandos-t/ridelink/internal/adapter/http/middleware"
	"github.com/zhandos-t/ridelink/pkg/logger"
	ws "github.com/zhandos-t/ridelink/pkg/wsHub"
)

const serverIPAddress = "%s:%s"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health *handler.Health
	auth   *handler.Auth
	ride   *handler.Ride
	driver *handler.Driver
	ws     *handler.WS
}

func New(
	cfg config.Config,
	authService handler.AuthService,
	rideService handler.RideService,
	driverService handler.DriverService,
	hub *ws.Hub,
	verifier middleware.AuthService,
	log logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	addr := fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Server.Port)

	routes := &handlers{
		health: handler.NewHealth(cfg.ServiceName, log),
		auth:   handler.NewAuth(authService, log),
		ride:   handler.NewRide(rideService, log),
		driver: handler.NewDriver(driverService, log),
		ws:     handler.NewWS(hub, cfg.ServiceName, log),
	}

	mid := middleware.NewMiddleware(verifier, log)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   addr,
		cfg:    cfg,
		log:    log,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	api.setupRoutes()

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = logger.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = logger.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	chain := a.m.Metrics(a.cfg.ServiceName)(a.mux)
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Auth(chain))))
}
