package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/internal/adapter/http/handler/dto"
	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/logger"
	"github.com/zhandos-t/ridelink/pkg/validator"
)

type RideService interface {
	Request(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	Accept(ctx context.Context, rideID, driverID uuid.UUID) (*models.Ride, error)
	Start(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	Complete(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	Cancel(ctx context.Context, rideID uuid.UUID, cancelledBy types.UserRole) (*models.Ride, error)
	Update(ctx context.Context, rideID uuid.UUID, upd models.RideUpdate) (*models.Ride, error)
	ListByPassenger(ctx context.Context, passengerID uuid.UUID) ([]models.Ride, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Ride, error)
}

type Ride struct {
	service RideService
	l       logger.Logger
}

func NewRide(service RideService, l logger.Logger) *Ride {
	return &Ride{
		service: service,
		l:       l,
	}
}

// Request godoc
// @Summary      Request a new ride
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Param        request  body  dto.RequestRideRequest  true  "ride request"
// @Success      201  {object}  map[string]any
// @Failure      422  {object}  map[string]any
// @Router       /request-ride [post]
func (h *Ride) Request(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "request_ride")

	req := &dto.RequestRideRequest{}
	if err := readJSON(w, r, req); err != nil {
		h.l.Error(ctx, "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	ride, err := req.ToModel()
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	created, err := h.service.Request(ctx, ride)
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to request ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"message": "Ride requested",
		"ride":    created,
	}
	h.writeRide(ctx, w, http.StatusCreated, response)
}

// Accept godoc
// @Summary      Accept a requested ride
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Param        ride_id  path  string                 true  "ride id"
// @Param        request  body  dto.AcceptRideRequest  true  "accepting driver"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /accept-ride/{ride_id} [post]
func (h *Ride) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "accept_ride")

	rideID, ok := h.pathID(ctx, w, r, "ride_id")
	if !ok {
		return
	}

	req := &dto.AcceptRideRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		badRequestResponse(w, "driverId must be a valid UUID")
		return
	}

	ride, err := h.service.Accept(ctx, rideID, driverID)
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to accept ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.writeRide(ctx, w, http.StatusOK, envelope{
		"message": "Ride accepted",
		"ride":    ride,
	})
}

// Start godoc
// @Summary      Start an accepted ride
// @Tags         Rides
// @Produce      json
// @Param        ride_id  path  string  true  "ride id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /start-ride/{ride_id} [post]
func (h *Ride) Start(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "start_ride")

	rideID, ok := h.pathID(ctx, w, r, "ride_id")
	if !ok {
		return
	}

	ride, err := h.service.Start(ctx, rideID)
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to start ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.writeRide(ctx, w, http.StatusOK, envelope{
		"message": "Ride started",
		"ride":    ride,
	})
}

// Complete godoc
// @Summary      Complete a ride in progress
// @Tags         Rides
// @Produce      json
// @Param        ride_id  path  string  true  "ride id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /complete-ride/{ride_id} [post]
func (h *Ride) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "complete_ride")

	rideID, ok := h.pathID(ctx, w, r, "ride_id")
	if !ok {
		return
	}

	ride, err := h.service.Complete(ctx, rideID)
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to complete ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.writeRide(ctx, w, http.StatusOK, envelope{
		"message": "Ride completed",
		"ride":    ride,
	})
}

// Cancel godoc
// @Summary      Cancel a ride
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Param        ride_id  path  string                 true  "ride id"
// @Param        request  body  dto.CancelRideRequest  true  "cancelling party"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /cancel-ride/{ride_id} [post]
func (h *Ride) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "cancel_ride")

	rideID, ok := h.pathID(ctx, w, r, "ride_id")
	if !ok {
		return
	}

	req := &dto.CancelRideRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	ride, err := h.service.Cancel(ctx, rideID, types.UserRole(req.CancelledBy))
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to cancel ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.writeRide(ctx, w, http.StatusOK, envelope{
		"message": "Ride cancelled",
		"ride":    ride,
	})
}

// Update godoc
// @Summary      Update ride fields
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Param        ride_id  path  string                 true  "ride id"
// @Param        request  body  dto.UpdateRideRequest  true  "fields to merge"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /update-ride/{ride_id} [put]
func (h *Ride) Update(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "update_ride")

	rideID, ok := h.pathID(ctx, w, r, "ride_id")
	if !ok {
		return
	}

	req := &dto.UpdateRideRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	ride, err := h.service.Update(ctx, rideID, patch)
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to update ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.writeRide(ctx, w, http.StatusOK, envelope{
		"message": "Ride updated",
		"ride":    ride,
	})
}

// ListByPassenger godoc
// @Summary      List a passenger's rides
// @Tags         Rides
// @Produce      json
// @Param        passenger_id  path  string  true  "passenger id"
// @Success      200  {object}  map[string]any
// @Router       /rides/passenger/{passenger_id} [get]
func (h *Ride) ListByPassenger(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "list_rides_by_passenger")

	passengerID, ok := h.pathID(ctx, w, r, "passenger_id")
	if !ok {
		return
	}

	rides, err := h.service.ListByPassenger(ctx, passengerID)
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to list passenger rides", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}
	if rides == nil {
		rides = []models.Ride{}
	}

	h.writeRide(ctx, w, http.StatusOK, envelope{"rides": rides})
}

// ListByDriver godoc
// @Summary      List a driver's rides
// @Tags         Rides
// @Produce      json
// @Param        driver_id  path  string  true  "driver id"
// @Success      200  {object}  map[string]any
// @Router       /rides/driver/{driver_id} [get]
func (h *Ride) ListByDriver(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "list_rides_by_driver")

	driverID, ok := h.pathID(ctx, w, r, "driver_id")
	if !ok {
		return
	}

	rides, err := h.service.ListByDriver(ctx, driverID)
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to list driver rides", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}
	if rides == nil {
		rides = []models.Ride{}
	}

	h.writeRide(ctx, w, http.StatusOK, envelope{"rides": rides})
}

func (h *Ride) pathID(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		h.l.Warn(ctx, "invalid uuid in path", "param", name)
		badRequestResponse(w, "invalid "+name+" uuid format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Ride) writeRide(ctx context.Context, w http.ResponseWriter, status int, response envelope) {
	if err := writeJSON(w, status, response, nil); err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
