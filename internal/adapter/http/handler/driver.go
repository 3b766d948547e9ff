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

type DriverService interface {
	SetAvailability(ctx context.Context, driverID uuid.UUID, availability types.DriverAvailability) error
	Heartbeat(ctx context.Context, userID uuid.UUID) error
	ListAvailable(ctx context.Context, rideType types.RideType) ([]models.Driver, error)
}

type Driver struct {
	service DriverService
	l       logger.Logger
}

func NewDriver(service DriverService, l logger.Logger) *Driver {
	return &Driver{
		service: service,
		l:       l,
	}
}

// SetAvailability godoc
// @Summary      Set driver availability
// @Tags         Drivers
// @Accept       json
// @Produce      json
// @Param        driver_id  path  string                      true  "driver id"
// @Param        request    body  dto.SetAvailabilityRequest  true  "availability"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /drivers/{driver_id}/availability [post]
func (h *Driver) SetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "set_driver_availability")

	driverID, err := uuid.Parse(r.PathValue("driver_id"))
	if err != nil {
		h.l.Warn(ctx, "invalid driver uuid format")
		badRequestResponse(w, "invalid driver_id uuid format")
		return
	}

	req := &dto.SetAvailabilityRequest{}
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

	if err := h.service.SetAvailability(ctx, driverID, types.DriverAvailability(req.Availability)); err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to set driver availability", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"message":      "Availability updated",
		"availability": req.Availability,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Heartbeat godoc
// @Summary      Refresh driver presence
// @Tags         Drivers
// @Produce      json
// @Success      204  "no content"
// @Failure      401  {object}  map[string]any
// @Router       /drivers/heartbeat [post]
func (h *Driver) Heartbeat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "driver_heartbeat")

	user := models.UserFromContext(ctx)
	if user == nil || user.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	if err := h.service.Heartbeat(ctx, user.ID); err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to record driver heartbeat", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAvailable godoc
// @Summary      List available drivers for a vehicle class
// @Tags         Drivers
// @Produce      json
// @Param        ride_type  path  string  true  "economy | comfort | premium"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /available-drivers/{ride_type} [get]
func (h *Driver) ListAvailable(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "list_available_drivers")

	rideType := r.PathValue("ride_type")
	if !types.ValidRideType(rideType) {
		badRequestResponse(w, "ride_type must be one of economy, comfort, or premium")
		return
	}

	drivers, err := h.service.ListAvailable(ctx, types.RideType(rideType))
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to list available drivers", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"rideType": rideType,
		"drivers":  drivers,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
