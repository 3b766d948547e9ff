package driver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/logger"
)

// Service manages driver availability. The durable flag lives in the
// store; a Redis TTL key says the driver's client checked in recently.
// A driver is listed only when both agree.
type Service struct {
	repo     DriverRepo
	presence PresenceStore
	log      logger.Logger
}

func NewService(repo DriverRepo, presence PresenceStore, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		presence: presence,
		log:      log,
	}
}

// SetAvailability flips the driver's stored flag and the presence key
// together. driverID here is the drivers table id, not the user id.
func (s *Service) SetAvailability(ctx context.Context, driverID uuid.UUID, availability types.DriverAvailability) error {
	ctx = logger.WithAction(ctx, "set_driver_availability")

	if !types.ValidDriverAvailability(string(availability)) {
		return logger.WrapError(ctx, fmt.Errorf("%w: availability", types.ErrInvalidInput))
	}

	if err := s.repo.SetAvailability(ctx, driverID, availability); err != nil {
		return logger.WrapError(ctx, err)
	}

	var err error
	if availability == types.DriverAvailable {
		err = s.presence.MarkOnline(ctx, driverID)
	} else {
		err = s.presence.MarkOffline(ctx, driverID)
	}
	if err != nil {
		// The store is the source of truth; a presence write failure only
		// delays the driver showing up in listings until the next heartbeat.
		s.log.Warn(ctx, "presence update failed", "driver_id", driverID.String(), "err", err.Error())
	}

	return nil
}

// Heartbeat refreshes the presence key for the driver belonging to the
// given user. Clients call this periodically while the driver app is in
// the foreground.
func (s *Service) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	ctx = logger.WithAction(ctx, "driver_heartbeat")

	driver, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return logger.WrapError(ctx, err)
	}
	if driver.Availability != types.DriverAvailable {
		return logger.WrapError(ctx, fmt.Errorf("%w: driver is not available", types.ErrInvalidInput))
	}

	if err := s.presence.MarkOnline(ctx, driver.ID); err != nil {
		return logger.WrapError(ctx, err)
	}
	return nil
}

// ListAvailable returns drivers of the given class whose stored flag is
// available and whose presence key is still live.
func (s *Service) ListAvailable(ctx context.Context, rideType types.RideType) ([]models.Driver, error) {
	ctx = logger.WithAction(ctx, "list_available_drivers")

	if !types.ValidRideType(string(rideType)) {
		return nil, logger.WrapError(ctx, fmt.Errorf("%w: rideType", types.ErrInvalidInput))
	}

	drivers, err := s.repo.ListAvailableByType(ctx, rideType)
	if err != nil {
		return nil, logger.WrapError(ctx, err)
	}
	if len(drivers) == 0 {
		return []models.Driver{}, nil
	}

	ids := make([]uuid.UUID, len(drivers))
	for i, d := range drivers {
		ids[i] = d.ID
	}

	online, err := s.presence.FilterOnline(ctx, ids)
	if err != nil {
		// Degrade to the stored flag alone rather than hiding every driver.
		s.log.Warn(ctx, "presence filter failed, serving store results", "err", err.Error())
		return drivers, nil
	}

	live := make(map[uuid.UUID]struct{}, len(online))
	for _, id := range online {
		live[id] = struct{}{}
	}

	filtered := make([]models.Driver, 0, len(online))
	for _, d := range drivers {
		if _, ok := live[d.ID]; ok {
			filtered = append(filtered, d)
		}
	}

	return filtered, nil
}
