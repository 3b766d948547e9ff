package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/zhandos-t/ridelink/docs"
	"github.com/zhandos-t/ridelink/internal/domain/types"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System
	a.mux.HandleFunc("/health", a.routes.health.HealthCheck)
	a.mux.Handle("/metrics", promhttp.Handler())
	a.mux.HandleFunc("/swagger/", httpSwagger.Handler())

	// Accounts
	a.mux.HandleFunc("POST /register/passenger", a.routes.auth.RegisterPassenger)
	a.mux.HandleFunc("POST /register/driver", a.routes.auth.RegisterDriver)
	a.mux.HandleFunc("POST /login", a.routes.auth.Login)

	// Ride lifecycle
	a.mux.HandleFunc("POST /request-ride", a.routes.ride.Request)
	a.mux.HandleFunc("POST /accept-ride/{ride_id}", a.routes.ride.Accept)
	a.mux.HandleFunc("POST /start-ride/{ride_id}", a.routes.ride.Start)
	a.mux.HandleFunc("POST /complete-ride/{ride_id}", a.routes.ride.Complete)
	a.mux.HandleFunc("POST /cancel-ride/{ride_id}", a.routes.ride.Cancel)
	a.mux.HandleFunc("PUT /update-ride/{ride_id}", a.routes.ride.Update)

	// Ride history
	a.mux.HandleFunc("GET /rides/passenger/{passenger_id}", a.routes.ride.ListByPassenger)
	a.mux.HandleFunc("GET /rides/driver/{driver_id}", a.routes.ride.ListByDriver)

	// Drivers
	a.mux.HandleFunc("GET /available-drivers/{ride_type}", a.routes.driver.ListAvailable)
	a.mux.Handle("POST /drivers/{driver_id}/availability", a.m.RequireRoles(a.routes.driver.SetAvailability, types.RoleDriver))
	a.mux.Handle("POST /drivers/heartbeat", a.m.RequireRoles(a.routes.driver.Heartbeat, types.RoleDriver))

	// Live ride events
	a.mux.HandleFunc("GET /ws", a.routes.ws.Handle)
}
