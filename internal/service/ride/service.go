package ride

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/logger"
	"github.com/zhandos-t/ridelink/pkg/metrics"
	"github.com/zhandos-t/ridelink/pkg/trm"
)

// Service is the ride lifecycle controller. Every operation validates its
// input, mutates the store, and only on store success notifies subscribers.
// Notification failures never fail the operation.
type Service struct {
	repo        RideRepo
	broadcaster EventBroadcaster
	feed        EventFeed
	trm         trm.TxManager
	log         logger.Logger
	serviceName string
}

func NewService(repo RideRepo, broadcaster EventBroadcaster, feed EventFeed, txm trm.TxManager, log logger.Logger, serviceName string) *Service {
	return &Service{
		repo:        repo,
		broadcaster: broadcaster,
		feed:        feed,
		trm:         txm,
		log:         log,
		serviceName: serviceName,
	}
}

// Request creates a new ride in status Requested and announces it to every
// connected client so available drivers can pick it up.
func (s *Service) Request(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	ctx = logger.WithAction(ctx, "request_ride")

	if ride.PickupLocation == "" {
		return nil, logger.WrapError(ctx, fmt.Errorf("%w: pickupLocation", types.ErrInvalidInput))
	}
	if ride.DropLocation == "" {
		return nil, logger.WrapError(ctx, fmt.Errorf("%w: dropLocation", types.ErrInvalidInput))
	}
	if !types.ValidRideType(string(ride.RideType)) {
		return nil, logger.WrapError(ctx, fmt.Errorf("%w: rideType", types.ErrInvalidInput))
	}
	if ride.PassengerID == uuid.Nil {
		return nil, logger.WrapError(ctx, fmt.Errorf("%w: passengerId", types.ErrInvalidInput))
	}

	ride.Status = types.StatusRequested
	ride.DriverID = nil

	var created *models.Ride
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, ride)
		if err != nil {
			return logger.WrapError(ctx, fmt.Errorf("could not create ride: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, types.EventNewRideRequest, created)
	s.broadcaster.BroadcastAll(ctx, types.EventNewRideRequest, created)

	return created, nil
}

// Accept assigns the driver and moves the ride to Accepted. Only the
// passenger is notified.
func (s *Service) Accept(ctx context.Context, rideID, driverID uuid.UUID) (*models.Ride, error) {
	ctx = logger.WithAction(logger.WithRideID(ctx, rideID.String()), "accept_ride")

	if driverID == uuid.Nil {
		return nil, logger.WrapError(ctx, fmt.Errorf("%w: driverId", types.ErrInvalidInput))
	}
	if err := s.ensureActive(ctx, rideID); err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	status := types.StatusAccepted
	updated, err := s.repo.ApplyUpdate(ctx, rideID, models.RideUpdate{
		Status:   &status,
		DriverID: &driverID,
	})
	if err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	s.committed(ctx, types.EventRideAccepted, updated)
	s.broadcaster.SendTo(ctx, updated.PassengerID, types.EventRideAccepted, updated)

	return updated, nil
}

// Start moves the ride to InProgress and notifies both parties.
func (s *Service) Start(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	return s.transition(ctx, "start_ride", rideID, types.StatusInProgress, types.EventRideStarted)
}

// Complete moves the ride to Completed and notifies both parties.
func (s *Service) Complete(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	return s.transition(ctx, "complete_ride", rideID, types.StatusCompleted, types.EventRideCompleted)
}

func (s *Service) transition(ctx context.Context, action string, rideID uuid.UUID, status types.RideStatus, event types.RideEventType) (*models.Ride, error) {
	ctx = logger.WithAction(logger.WithRideID(ctx, rideID.String()), action)

	if err := s.ensureActive(ctx, rideID); err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	updated, err := s.repo.ApplyUpdate(ctx, rideID, models.RideUpdate{Status: &status})
	if err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	s.committed(ctx, event, updated)
	s.broadcaster.SendTo(ctx, updated.PassengerID, event, updated)
	if updated.DriverID != nil {
		s.broadcaster.SendTo(ctx, *updated.DriverID, event, updated)
	}

	return updated, nil
}

// Cancel moves the ride to Cancelled and notifies the other party: the
// driver when the passenger cancelled (and a driver is assigned), the
// passenger when the driver cancelled. Cancellation is permitted from any
// non-terminal state, including InProgress.
func (s *Service) Cancel(ctx context.Context, rideID uuid.UUID, cancelledBy types.UserRole) (*models.Ride, error) {
	ctx = logger.WithAction(logger.WithRideID(ctx, rideID.String()), "cancel_ride")

	if !types.ValidUserRole(string(cancelledBy)) {
		return nil, logger.WrapError(ctx, types.ErrInvalidCancelledBy)
	}
	if err := s.ensureActive(ctx, rideID); err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	status := types.StatusCancelled
	updated, err := s.repo.ApplyUpdate(ctx, rideID, models.RideUpdate{Status: &status})
	if err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	s.committed(ctx, types.EventRideCancelled, updated)

	switch {
	case cancelledBy == types.RolePassenger && updated.DriverID != nil:
		s.broadcaster.SendCancelled(ctx, *updated.DriverID, updated, cancelledBy)
	case cancelledBy == types.RoleDriver:
		s.broadcaster.SendCancelled(ctx, updated.PassengerID, updated, cancelledBy)
	}

	return updated, nil
}

// Update merges arbitrary ride fields atomically and notifies the passenger
// plus the driver when one is assigned.
func (s *Service) Update(ctx context.Context, rideID uuid.UUID, upd models.RideUpdate) (*models.Ride, error) {
	ctx = logger.WithAction(logger.WithRideID(ctx, rideID.String()), "update_ride")

	if upd.Empty() {
		return nil, logger.WrapError(ctx, fmt.Errorf("%w: no fields to update", types.ErrInvalidInput))
	}
	if err := s.ensureActive(ctx, rideID); err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	updated, err := s.repo.ApplyUpdate(ctx, rideID, upd)
	if err != nil {
		return nil, logger.WrapError(ctx, err)
	}

	s.committed(ctx, types.EventRideUpdated, updated)
	s.broadcaster.SendTo(ctx, updated.PassengerID, types.EventRideUpdated, updated)
	if updated.DriverID != nil {
		s.broadcaster.SendTo(ctx, *updated.DriverID, types.EventRideUpdated, updated)
	}

	return updated, nil
}

// ListByPassenger returns the passenger's rides, newest first.
func (s *Service) ListByPassenger(ctx context.Context, passengerID uuid.UUID) ([]models.Ride, error) {
	rides, err := s.repo.ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, logger.WrapError(logger.WithAction(ctx, "list_rides_by_passenger"), err)
	}
	return rides, nil
}

// ListByDriver returns the driver's rides, newest first.
func (s *Service) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Ride, error) {
	rides, err := s.repo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, logger.WrapError(logger.WithAction(ctx, "list_rides_by_driver"), err)
	}
	return rides, nil
}

// ensureActive rejects mutations of a ride that already reached a terminal
// status (Completed or Cancelled).
func (s *Service) ensureActive(ctx context.Context, rideID uuid.UUID) error {
	current, err := s.repo.Get(ctx, rideID)
	if err != nil {
		return err
	}
	if current.Status.Terminal() {
		return types.ErrRideAlreadyFinished
	}
	return nil
}

// committed records metrics and feeds the durable event stream after a store
// mutation succeeded.
func (s *Service) committed(ctx context.Context, event types.RideEventType, ride *models.Ride) {
	metrics.RidesTotal.WithLabelValues(s.serviceName, ride.Status.String()).Inc()
	if s.feed != nil {
		s.feed.Publish(ctx, event, ride)
	}
}
