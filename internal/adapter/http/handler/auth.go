package handler

import (
	"context"
	"net/http"

	"github.com/zhandos-t/ridelink/internal/adapter/http/handler/dto"
	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/internal/service/auth"
	"github.com/zhandos-t/ridelink/pkg/logger"
	"github.com/zhandos-t/ridelink/pkg/validator"
)

type AuthService interface {
	RegisterPassenger(ctx context.Context, name, email, password string) (*models.User, error)
	RegisterDriver(ctx context.Context, name, email, password string, rideType types.RideType) (*models.User, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

type Auth struct {
	auth AuthService
	l    logger.Logger
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		auth: service,
		l:    l,
	}
}

// RegisterPassenger godoc
// @Summary      Register a passenger
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body  dto.RegisterPassengerRequest  true  "passenger account"
// @Success      201  {object}  map[string]any
// @Failure      422  {object}  map[string]any
// @Router       /register/passenger [post]
func (h *Auth) RegisterPassenger(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "register_passenger")

	req := &dto.RegisterPassengerRequest{}
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

	user, err := h.auth.RegisterPassenger(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to register passenger", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"message": "Passenger registered successfully",
		"user":    user,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// RegisterDriver godoc
// @Summary      Register a driver
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body  dto.RegisterDriverRequest  true  "driver account"
// @Success      201  {object}  map[string]any
// @Failure      422  {object}  map[string]any
// @Router       /register/driver [post]
func (h *Auth) RegisterDriver(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "register_driver")

	req := &dto.RegisterDriverRequest{}
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

	user, err := h.auth.RegisterDriver(ctx, req.Name, req.Email, req.Password, types.RideType(req.RideType))
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to register driver", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"message": "Driver registered successfully",
		"user":    user,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Login godoc
// @Summary      Login with email and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body  dto.LoginRequest  true  "credentials"
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "login_user")

	req := &dto.LoginRequest{}
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

	result, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to login user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"access_token":  result.Tokens.AccessToken,
		"refresh_token": result.Tokens.RefreshToken,
		"user":          result.User,
	}
	if result.Driver != nil {
		response["driver"] = result.Driver
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(logger.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
