package ride

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/logger"
)

// fakeRepo is an in-memory RideRepo.
type fakeRepo struct {
	rides   map[uuid.UUID]*models.Ride
	failAll bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rides: make(map[uuid.UUID]*models.Ride)}
}

var errStore = errors.New("store unavailable")

func (r *fakeRepo) Create(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	if r.failAll {
		return nil, errStore
	}
	ride.ID = uuid.New()
	cp := *ride
	r.rides[cp.ID] = &cp
	return &cp, nil
}

func (r *fakeRepo) Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	ride, ok := r.rides[rideID]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	cp := *ride
	return &cp, nil
}

func (r *fakeRepo) ApplyUpdate(ctx context.Context, rideID uuid.UUID, upd models.RideUpdate) (*models.Ride, error) {
	if r.failAll {
		return nil, errStore
	}
	ride, ok := r.rides[rideID]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	if upd.PickupLocation != nil {
		ride.PickupLocation = *upd.PickupLocation
	}
	if upd.DropLocation != nil {
		ride.DropLocation = *upd.DropLocation
	}
	if upd.RideType != nil {
		ride.RideType = *upd.RideType
	}
	if upd.Status != nil {
		ride.Status = *upd.Status
	}
	if upd.DriverID != nil {
		ride.DriverID = upd.DriverID
	}
	cp := *ride
	return &cp, nil
}

func (r *fakeRepo) ListByPassenger(ctx context.Context, passengerID uuid.UUID) ([]models.Ride, error) {
	var out []models.Ride
	for _, ride := range r.rides {
		if ride.PassengerID == passengerID {
			out = append(out, *ride)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Ride, error) {
	var out []models.Ride
	for _, ride := range r.rides {
		if ride.DriverID != nil && *ride.DriverID == driverID {
			out = append(out, *ride)
		}
	}
	return out, nil
}

// recordedSend captures one broadcaster invocation.
type recordedSend struct {
	event       types.RideEventType
	target      *uuid.UUID // nil for fan-out to all
	status      types.RideStatus
	cancelledBy types.UserRole
}

type recordingBroadcaster struct {
	sends []recordedSend
}

func (b *recordingBroadcaster) BroadcastAll(ctx context.Context, event types.RideEventType, ride *models.Ride) {
	b.sends = append(b.sends, recordedSend{event: event, status: ride.Status})
}

func (b *recordingBroadcaster) SendTo(ctx context.Context, subscriberID uuid.UUID, event types.RideEventType, ride *models.Ride) {
	id := subscriberID
	b.sends = append(b.sends, recordedSend{event: event, target: &id, status: ride.Status})
}

func (b *recordingBroadcaster) SendCancelled(ctx context.Context, subscriberID uuid.UUID, ride *models.Ride, cancelledBy types.UserRole) {
	id := subscriberID
	b.sends = append(b.sends, recordedSend{
		event:       types.EventRideCancelled,
		target:      &id,
		status:      ride.Status,
		cancelledBy: cancelledBy,
	})
}

// fakeTxManager runs the function without a database.
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *recordingBroadcaster) {
	t.Helper()
	repo := newFakeRepo()
	bc := &recordingBroadcaster{}
	svc := NewService(repo, bc, nil, fakeTxManager{}, logger.New("test", logger.LevelError), "test")
	return svc, repo, bc
}

func validRequest(passengerID uuid.UUID) *models.Ride {
	return &models.Ride{
		PickupLocation: "A",
		DropLocation:   "B",
		RideType:       types.RideTypeEconomy,
		PassengerID:    passengerID,
	}
}

func TestRequest_CreatesAndBroadcastsToAll(t *testing.T) {
	svc, repo, bc := newTestService(t)

	created, err := svc.Request(context.Background(), validRequest(uuid.New()))
	require.NoError(t, err)
	require.Equal(t, types.StatusRequested, created.Status)
	require.Nil(t, created.DriverID)
	require.Len(t, repo.rides, 1)

	require.Len(t, bc.sends, 1)
	assert.Equal(t, types.EventNewRideRequest, bc.sends[0].event)
	assert.Nil(t, bc.sends[0].target, "new ride request must fan out to all connections")
	assert.Equal(t, types.StatusRequested, bc.sends[0].status)
}

func TestRequest_MissingFieldIsClientError(t *testing.T) {
	svc, repo, bc := newTestService(t)

	cases := map[string]*models.Ride{
		"pickup":    {DropLocation: "B", RideType: types.RideTypeEconomy, PassengerID: uuid.New()},
		"drop":      {PickupLocation: "A", RideType: types.RideTypeEconomy, PassengerID: uuid.New()},
		"rideType":  {PickupLocation: "A", DropLocation: "B", RideType: "rocket", PassengerID: uuid.New()},
		"passenger": {PickupLocation: "A", DropLocation: "B", RideType: types.RideTypeEconomy},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Request(context.Background(), req)
			require.ErrorIs(t, err, types.ErrInvalidInput)
		})
	}

	assert.Empty(t, repo.rides, "invalid request must not create a ride")
	assert.Empty(t, bc.sends, "invalid request must not broadcast")
}

func TestRequest_StoreFailureDoesNotBroadcast(t *testing.T) {
	svc, repo, bc := newTestService(t)
	repo.failAll = true

	_, err := svc.Request(context.Background(), validRequest(uuid.New()))
	require.ErrorIs(t, err, errStore)
	assert.Empty(t, bc.sends)
}

func TestAccept_TargetsPassengerOnly(t *testing.T) {
	svc, _, bc := newTestService(t)

	passengerID := uuid.New()
	created, err := svc.Request(context.Background(), validRequest(passengerID))
	require.NoError(t, err)
	bc.sends = nil

	driverID := uuid.New()
	accepted, err := svc.Accept(context.Background(), created.ID, driverID)
	require.NoError(t, err)
	require.Equal(t, types.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.DriverID)
	assert.Equal(t, driverID, *accepted.DriverID)

	require.Len(t, bc.sends, 1, "accept must produce exactly one event")
	assert.Equal(t, types.EventRideAccepted, bc.sends[0].event)
	require.NotNil(t, bc.sends[0].target, "accept must never fan out to all connections")
	assert.Equal(t, passengerID, *bc.sends[0].target)
}

func TestAccept_UnknownRide(t *testing.T) {
	svc, _, bc := newTestService(t)

	_, err := svc.Accept(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, types.ErrRideNotFound)
	assert.Empty(t, bc.sends)
}

func TestStartAndComplete_NotifyBothParties(t *testing.T) {
	svc, _, bc := newTestService(t)

	passengerID, driverID := uuid.New(), uuid.New()
	created, err := svc.Request(context.Background(), validRequest(passengerID))
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), created.ID, driverID)
	require.NoError(t, err)
	bc.sends = nil

	started, err := svc.Start(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusInProgress, started.Status)

	completed, err := svc.Complete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, completed.Status)

	require.Len(t, bc.sends, 4)
	for i, want := range []struct {
		event  types.RideEventType
		target uuid.UUID
	}{
		{types.EventRideStarted, passengerID},
		{types.EventRideStarted, driverID},
		{types.EventRideCompleted, passengerID},
		{types.EventRideCompleted, driverID},
	} {
		assert.Equal(t, want.event, bc.sends[i].event)
		require.NotNil(t, bc.sends[i].target)
		assert.Equal(t, want.target, *bc.sends[i].target)
	}
}

func TestCancel_ByPassengerWithDriverNotifiesDriver(t *testing.T) {
	svc, _, bc := newTestService(t)

	driverID := uuid.New()
	created, err := svc.Request(context.Background(), validRequest(uuid.New()))
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), created.ID, driverID)
	require.NoError(t, err)
	bc.sends = nil

	cancelled, err := svc.Cancel(context.Background(), created.ID, types.RolePassenger)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCancelled, cancelled.Status)

	require.Len(t, bc.sends, 1)
	assert.Equal(t, types.EventRideCancelled, bc.sends[0].event)
	require.NotNil(t, bc.sends[0].target)
	assert.Equal(t, driverID, *bc.sends[0].target)
	assert.Equal(t, types.RolePassenger, bc.sends[0].cancelledBy)
}

func TestCancel_ByPassengerWithoutDriverSendsNothing(t *testing.T) {
	svc, _, bc := newTestService(t)

	created, err := svc.Request(context.Background(), validRequest(uuid.New()))
	require.NoError(t, err)
	bc.sends = nil

	cancelled, err := svc.Cancel(context.Background(), created.ID, types.RolePassenger)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCancelled, cancelled.Status)
	assert.Empty(t, bc.sends, "no driver assigned, nobody to notify")
}

func TestCancel_ByDriverNotifiesPassenger(t *testing.T) {
	svc, _, bc := newTestService(t)

	passengerID := uuid.New()
	created, err := svc.Request(context.Background(), validRequest(passengerID))
	require.NoError(t, err)
	bc.sends = nil

	_, err = svc.Cancel(context.Background(), created.ID, types.RoleDriver)
	require.NoError(t, err)

	require.Len(t, bc.sends, 1)
	require.NotNil(t, bc.sends[0].target)
	assert.Equal(t, passengerID, *bc.sends[0].target)
	assert.Equal(t, types.RoleDriver, bc.sends[0].cancelledBy)
}

func TestCancel_InvalidParty(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Request(context.Background(), validRequest(uuid.New()))
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), created.ID, "dispatcher")
	require.ErrorIs(t, err, types.ErrInvalidCancelledBy)

	got, err := svc.repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusRequested, got.Status, "invalid party must not mutate the ride")
}

func TestCancel_AfterStartIsAllowed(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Request(context.Background(), validRequest(uuid.New()))
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), created.ID, uuid.New())
	require.NoError(t, err)
	_, err = svc.Start(context.Background(), created.ID)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), created.ID, types.RolePassenger)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCancelled, cancelled.Status)
}

func TestCancel_FinishedRideIsRejected(t *testing.T) {
	svc, _, bc := newTestService(t)

	created, err := svc.Request(context.Background(), validRequest(uuid.New()))
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), created.ID, uuid.New())
	require.NoError(t, err)
	_, err = svc.Start(context.Background(), created.ID)
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), created.ID)
	require.NoError(t, err)
	bc.sends = nil

	_, err = svc.Cancel(context.Background(), created.ID, types.RolePassenger)
	require.ErrorIs(t, err, types.ErrRideAlreadyFinished)
	assert.Empty(t, bc.sends, "rejected cancel must not notify anyone")

	got, err := svc.repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, got.Status)
}

func TestTransitions_OnCancelledRideAreRejected(t *testing.T) {
	svc, _, bc := newTestService(t)

	created, err := svc.Request(context.Background(), validRequest(uuid.New()))
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), created.ID, types.RolePassenger)
	require.NoError(t, err)
	bc.sends = nil

	_, err = svc.Accept(context.Background(), created.ID, uuid.New())
	require.ErrorIs(t, err, types.ErrRideAlreadyFinished)

	_, err = svc.Start(context.Background(), created.ID)
	require.ErrorIs(t, err, types.ErrRideAlreadyFinished)

	_, err = svc.Complete(context.Background(), created.ID)
	require.ErrorIs(t, err, types.ErrRideAlreadyFinished)

	drop := "elsewhere"
	_, err = svc.Update(context.Background(), created.ID, models.RideUpdate{DropLocation: &drop})
	require.ErrorIs(t, err, types.ErrRideAlreadyFinished)

	assert.Empty(t, bc.sends, "rejected mutations must not notify anyone")
}

func TestUpdate_NotifiesPassengerAndAssignedDriver(t *testing.T) {
	svc, _, bc := newTestService(t)

	passengerID, driverID := uuid.New(), uuid.New()
	created, err := svc.Request(context.Background(), validRequest(passengerID))
	require.NoError(t, err)

	// Before a driver is assigned only the passenger hears about updates.
	bc.sends = nil
	newDrop := "C"
	updated, err := svc.Update(context.Background(), created.ID, models.RideUpdate{DropLocation: &newDrop})
	require.NoError(t, err)
	assert.Equal(t, "C", updated.DropLocation)
	require.Len(t, bc.sends, 1)
	assert.Equal(t, passengerID, *bc.sends[0].target)

	_, err = svc.Accept(context.Background(), created.ID, driverID)
	require.NoError(t, err)

	bc.sends = nil
	newPickup := "D"
	_, err = svc.Update(context.Background(), created.ID, models.RideUpdate{PickupLocation: &newPickup})
	require.NoError(t, err)
	require.Len(t, bc.sends, 2)
	assert.Equal(t, passengerID, *bc.sends[0].target)
	assert.Equal(t, driverID, *bc.sends[1].target)
	for _, s := range bc.sends {
		assert.Equal(t, types.EventRideUpdated, s.event)
	}
}

func TestUpdate_EmptyPatch(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Request(context.Background(), validRequest(uuid.New()))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, models.RideUpdate{})
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestListByPassengerAndDriver(t *testing.T) {
	svc, _, _ := newTestService(t)

	passengerID, driverID := uuid.New(), uuid.New()
	created, err := svc.Request(context.Background(), validRequest(passengerID))
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), created.ID, driverID)
	require.NoError(t, err)
	_, err = svc.Request(context.Background(), validRequest(uuid.New()))
	require.NoError(t, err)

	byPassenger, err := svc.ListByPassenger(context.Background(), passengerID)
	require.NoError(t, err)
	require.Len(t, byPassenger, 1)
	assert.Equal(t, created.ID, byPassenger[0].ID)

	byDriver, err := svc.ListByDriver(context.Background(), driverID)
	require.NoError(t, err)
	require.Len(t, byDriver, 1)
	assert.Equal(t, created.ID, byDriver[0].ID)
}
