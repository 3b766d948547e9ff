package driver

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

type fakeRepo struct {
	byID     map[uuid.UUID]*models.Driver
	byUserID map[uuid.UUID]*models.Driver
	listErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:     make(map[uuid.UUID]*models.Driver),
		byUserID: make(map[uuid.UUID]*models.Driver),
	}
}

func (r *fakeRepo) add(rideType types.RideType, availability types.DriverAvailability) *models.Driver {
	d := &models.Driver{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		RideType:     rideType,
		Availability: availability,
	}
	r.byID[d.ID] = d
	r.byUserID[d.UserID] = d
	return d
}

func (r *fakeRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Driver, error) {
	d, ok := r.byUserID[userID]
	if !ok {
		return nil, types.ErrDriverNotFound
	}
	return d, nil
}

func (r *fakeRepo) SetAvailability(ctx context.Context, driverID uuid.UUID, availability types.DriverAvailability) error {
	d, ok := r.byID[driverID]
	if !ok {
		return types.ErrDriverNotFound
	}
	d.Availability = availability
	return nil
}

func (r *fakeRepo) ListAvailableByType(ctx context.Context, rideType types.RideType) ([]models.Driver, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Driver
	for _, d := range r.byID {
		if d.RideType == rideType && d.Availability == types.DriverAvailable {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakePresence struct {
	online    map[uuid.UUID]bool
	filterErr error
}

func newFakePresence() *fakePresence {
	return &fakePresence{online: make(map[uuid.UUID]bool)}
}

func (p *fakePresence) MarkOnline(ctx context.Context, driverID uuid.UUID) error {
	p.online[driverID] = true
	return nil
}

func (p *fakePresence) MarkOffline(ctx context.Context, driverID uuid.UUID) error {
	delete(p.online, driverID)
	return nil
}

func (p *fakePresence) FilterOnline(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if p.filterErr != nil {
		return nil, p.filterErr
	}
	var out []uuid.UUID
	for _, id := range ids {
		if p.online[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeRepo, *fakePresence) {
	repo := newFakeRepo()
	presence := newFakePresence()
	return NewService(repo, presence, logger.New("test", logger.LevelError)), repo, presence
}

func TestSetAvailability_OnlineAndOffline(t *testing.T) {
	svc, repo, presence := newTestService()
	d := repo.add(types.RideTypeEconomy, types.DriverUnavailable)

	require.NoError(t, svc.SetAvailability(context.Background(), d.ID, types.DriverAvailable))
	assert.Equal(t, types.DriverAvailable, repo.byID[d.ID].Availability)
	assert.True(t, presence.online[d.ID])

	require.NoError(t, svc.SetAvailability(context.Background(), d.ID, types.DriverUnavailable))
	assert.Equal(t, types.DriverUnavailable, repo.byID[d.ID].Availability)
	assert.False(t, presence.online[d.ID])
}

func TestSetAvailability_UnknownDriver(t *testing.T) {
	svc, _, presence := newTestService()

	err := svc.SetAvailability(context.Background(), uuid.New(), types.DriverAvailable)
	require.ErrorIs(t, err, types.ErrDriverNotFound)
	assert.Empty(t, presence.online)
}

func TestSetAvailability_RejectsBadValue(t *testing.T) {
	svc, repo, _ := newTestService()
	d := repo.add(types.RideTypeEconomy, types.DriverUnavailable)

	err := svc.SetAvailability(context.Background(), d.ID, types.DriverAvailability("busy"))
	require.ErrorIs(t, err, types.ErrInvalidInput)
	assert.Equal(t, types.DriverUnavailable, repo.byID[d.ID].Availability)
}

func TestHeartbeat(t *testing.T) {
	svc, repo, presence := newTestService()
	d := repo.add(types.RideTypeComfort, types.DriverAvailable)

	require.NoError(t, svc.Heartbeat(context.Background(), d.UserID))
	assert.True(t, presence.online[d.ID])
}

func TestHeartbeat_RejectsUnavailableDriver(t *testing.T) {
	svc, repo, presence := newTestService()
	d := repo.add(types.RideTypeComfort, types.DriverUnavailable)

	err := svc.Heartbeat(context.Background(), d.UserID)
	require.ErrorIs(t, err, types.ErrInvalidInput)
	assert.False(t, presence.online[d.ID])
}

func TestListAvailable_IntersectsPresence(t *testing.T) {
	svc, repo, presence := newTestService()
	live := repo.add(types.RideTypeEconomy, types.DriverAvailable)
	stale := repo.add(types.RideTypeEconomy, types.DriverAvailable)
	repo.add(types.RideTypeComfort, types.DriverAvailable)
	repo.add(types.RideTypeEconomy, types.DriverUnavailable)

	presence.online[live.ID] = true
	_ = stale // stored as available but no presence key

	drivers, err := svc.ListAvailable(context.Background(), types.RideTypeEconomy)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, live.ID, drivers[0].ID)
}

func TestListAvailable_EmptyClass(t *testing.T) {
	svc, _, _ := newTestService()

	drivers, err := svc.ListAvailable(context.Background(), types.RideTypePremium)
	require.NoError(t, err)
	assert.Empty(t, drivers)
}

func TestListAvailable_RejectsUnknownClass(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ListAvailable(context.Background(), types.RideType("luxury"))
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestListAvailable_PresenceFailureFallsBackToStore(t *testing.T) {
	svc, repo, presence := newTestService()
	d := repo.add(types.RideTypeEconomy, types.DriverAvailable)
	presence.filterErr = errors.New("redis down")

	drivers, err := svc.ListAvailable(context.Background(), types.RideTypeEconomy)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, d.ID, drivers[0].ID)
}
