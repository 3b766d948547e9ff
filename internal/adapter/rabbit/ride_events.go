// Package rabbit publishes committed ride lifecycle transitions to a topic
// exchange for downstream consumers (analytics, notifications). The feed is
// supplementary: publish failures are logged and never fail the operation.
package rabbit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/logger"
	"github.com/zhandos-t/ridelink/pkg/metrics"
	"github.com/zhandos-t/ridelink/pkg/rabbit"
)

const ExchangeRideEvents = "ride.events"

type rideEventPayload struct {
	Event      types.RideEventType `json:"event"`
	Ride       *models.Ride        `json:"ride"`
	OccurredAt time.Time           `json:"occurred_at"`
}

type RideEventPublisher struct {
	mq      *rabbit.RabbitMQ
	log     logger.Logger
	service string
}

func NewRideEventPublisher(mq *rabbit.RabbitMQ, log logger.Logger, serviceName string) (*RideEventPublisher, error) {
	if err := mq.DeclareExchange(ExchangeRideEvents); err != nil {
		return nil, err
	}

	return &RideEventPublisher{
		mq:      mq,
		log:     log,
		service: serviceName,
	}, nil
}

// Publish sends one ride event to the feed, routing key = event type.
func (p *RideEventPublisher) Publish(ctx context.Context, event types.RideEventType, ride *models.Ride) {
	ctx = logger.WithAction(ctx, "publish_ride_event")

	body, err := json.Marshal(rideEventPayload{
		Event:      event,
		Ride:       ride,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		metrics.EventFeedPublishedTotal.WithLabelValues(p.service, event.String(), "error").Inc()
		p.log.Error(ctx, "failed to encode ride event", err, "event", event.String())
		return
	}

	if err := p.mq.Publish(ctx, ExchangeRideEvents, event.String(), body); err != nil {
		metrics.EventFeedPublishedTotal.WithLabelValues(p.service, event.String(), "error").Inc()
		p.log.Error(ctx, "failed to publish ride event", err,
			"event", event.String(),
			"ride_id", ride.ID,
		)
		return
	}

	metrics.EventFeedPublishedTotal.WithLabelValues(p.service, event.String(), "ok").Inc()
}
