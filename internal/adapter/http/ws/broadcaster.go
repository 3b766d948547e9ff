// Package wshandler pushes ride event messages to subscribed clients.
// Delivery is best-effort at-most-once: no queueing, no retry, no acks.
package wshandler

import (
	"context"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/logger"
	"github.com/zhandos-t/ridelink/pkg/metrics"
	ws "github.com/zhandos-t/ridelink/pkg/wsHub"
)

type Broadcaster struct {
	hub     *ws.Hub
	log     logger.Logger
	service string
}

func NewBroadcaster(hub *ws.Hub, log logger.Logger, serviceName string) *Broadcaster {
	return &Broadcaster{
		hub:     hub,
		log:     log,
		service: serviceName,
	}
}

// BroadcastAll fans the event out to every registered open connection.
// A send failure on one connection never aborts delivery to the others.
func (b *Broadcaster) BroadcastAll(ctx context.Context, event types.RideEventType, ride *models.Ride) {
	ctx = logger.WithAction(ctx, "ws_broadcast_all")

	msg := models.RideEventMessage{Type: event, Ride: ride}

	for _, conn := range b.hub.Snapshot() {
		if err := conn.Send(msg); err != nil {
			metrics.RecordPush(b.service, event.String(), false)
			b.log.Debug(ctx, "dropped ride event",
				"event", event.String(),
				"subscriber_id", conn.ID(),
				"err", err.Error(),
			)
			continue
		}
		metrics.RecordPush(b.service, event.String(), true)
	}
}

// SendTo pushes the event to one subscriber. The event is silently dropped
// when the subscriber has no open connection.
func (b *Broadcaster) SendTo(ctx context.Context, subscriberID uuid.UUID, event types.RideEventType, ride *models.Ride) {
	b.send(ctx, subscriberID, models.RideEventMessage{Type: event, Ride: ride})
}

// SendCancelled pushes a ride_cancelled event carrying the cancelling party.
func (b *Broadcaster) SendCancelled(ctx context.Context, subscriberID uuid.UUID, ride *models.Ride, cancelledBy types.UserRole) {
	b.send(ctx, subscriberID, models.RideEventMessage{
		Type:        types.EventRideCancelled,
		Ride:        ride,
		CancelledBy: cancelledBy,
	})
}

func (b *Broadcaster) send(ctx context.Context, subscriberID uuid.UUID, msg models.RideEventMessage) {
	ctx = logger.WithAction(ctx, "ws_send")

	conn, ok := b.hub.Lookup(subscriberID)
	if !ok {
		metrics.RecordPush(b.service, msg.Type.String(), false)
		b.log.Debug(ctx, "no connection for subscriber, event dropped",
			"event", msg.Type.String(),
			"subscriber_id", subscriberID,
		)
		return
	}

	if err := conn.Send(msg); err != nil {
		metrics.RecordPush(b.service, msg.Type.String(), false)
		b.log.Debug(ctx, "dropped ride event",
			"event", msg.Type.String(),
			"subscriber_id", subscriberID,
			"err", err.Error(),
		)
		return
	}

	metrics.RecordPush(b.service, msg.Type.String(), true)
}
