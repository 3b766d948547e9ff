package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/logger"
)

type fakeRideService struct {
	requested *models.Ride
	cancelled types.UserRole
	err       error
}

func (f *fakeRideService) Request(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	if f.err != nil {
		return nil, f.err
	}
	ride.ID = uuid.New()
	ride.Status = types.StatusRequested
	f.requested = ride
	return ride, nil
}

func (f *fakeRideService) Accept(ctx context.Context, rideID, driverID uuid.UUID) (*models.Ride, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Ride{ID: rideID, Status: types.StatusAccepted, DriverID: &driverID}, nil
}

func (f *fakeRideService) Start(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Ride{ID: rideID, Status: types.StatusInProgress}, nil
}

func (f *fakeRideService) Complete(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Ride{ID: rideID, Status: types.StatusCompleted}, nil
}

func (f *fakeRideService) Cancel(ctx context.Context, rideID uuid.UUID, cancelledBy types.UserRole) (*models.Ride, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.cancelled = cancelledBy
	return &models.Ride{ID: rideID, Status: types.StatusCancelled}, nil
}

func (f *fakeRideService) Update(ctx context.Context, rideID uuid.UUID, upd models.RideUpdate) (*models.Ride, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Ride{ID: rideID, Status: types.StatusRequested}, nil
}

func (f *fakeRideService) ListByPassenger(ctx context.Context, passengerID uuid.UUID) ([]models.Ride, error) {
	return nil, f.err
}

func (f *fakeRideService) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Ride, error) {
	return nil, f.err
}

func newRideMux(svc RideService) *http.ServeMux {
	h := NewRide(svc, logger.New("test", logger.LevelError))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /request-ride", h.Request)
	mux.HandleFunc("POST /accept-ride/{ride_id}", h.Accept)
	mux.HandleFunc("POST /cancel-ride/{ride_id}", h.Cancel)
	mux.HandleFunc("GET /rides/passenger/{passenger_id}", h.ListByPassenger)
	return mux
}

func TestRequestRideEndpoint(t *testing.T) {
	svc := &fakeRideService{}
	mux := newRideMux(svc)

	body := `{"passengerId":"` + uuid.NewString() + `","pickupLocation":"A","dropLocation":"B","rideType":"economy"}`
	req := httptest.NewRequest(http.MethodPost, "/request-ride", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.requested)

	var resp struct {
		Message string      `json:"message"`
		Ride    models.Ride `json:"ride"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.StatusRequested, resp.Ride.Status)
	assert.Equal(t, "A", resp.Ride.PickupLocation)
}

func TestRequestRideEndpoint_ValidationFailure(t *testing.T) {
	svc := &fakeRideService{}
	mux := newRideMux(svc)

	body := `{"passengerId":"","pickupLocation":"","dropLocation":"B","rideType":"spaceship"}`
	req := httptest.NewRequest(http.MethodPost, "/request-ride", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Nil(t, svc.requested, "service must not be called on invalid input")
}

func TestRequestRideEndpoint_MalformedBody(t *testing.T) {
	mux := newRideMux(&fakeRideService{})

	req := httptest.NewRequest(http.MethodPost, "/request-ride", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptRideEndpoint_UnknownRide(t *testing.T) {
	svc := &fakeRideService{err: types.ErrRideNotFound}
	mux := newRideMux(svc)

	body := `{"driverId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/accept-ride/"+uuid.NewString(), strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelRideEndpoint_PartyForwarded(t *testing.T) {
	svc := &fakeRideService{}
	mux := newRideMux(svc)

	req := httptest.NewRequest(http.MethodPost, "/cancel-ride/"+uuid.NewString(),
		strings.NewReader(`{"cancelledBy":"driver"}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.RoleDriver, svc.cancelled)
}

func TestListPassengerRidesEndpoint_EmptyIsArray(t *testing.T) {
	mux := newRideMux(&fakeRideService{})

	req := httptest.NewRequest(http.MethodGet, "/rides/passenger/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rides": []`)
}

func TestRideEndpoints_BadPathID(t *testing.T) {
	mux := newRideMux(&fakeRideService{})

	req := httptest.NewRequest(http.MethodPost, "/cancel-ride/not-a-uuid",
		strings.NewReader(`{"cancelledBy":"passenger"}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
