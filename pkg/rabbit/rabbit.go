package rabbit

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/zhandos-t/ridelink/pkg/logger"
)

// RabbitMQ is a thin wrapper over one AMQP connection and channel.
type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel

	mu       sync.Mutex
	isClosed bool

	log logger.Logger
}

// New dials RabbitMQ and opens a channel.
func New(ctx context.Context, dsn string, log logger.Logger) (*RabbitMQ, error) {
	conn, err := amqp.DialConfig(dsn, amqp.Config{
		Heartbeat: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	closeChan := make(chan *amqp.Error, 1)
	conn.NotifyClose(closeChan)
	go func() {
		if err := <-closeChan; err != nil {
			log.Error(context.Background(), "RabbitMQ connection closed", err)
		}
	}()

	log.Info(logger.WithAction(ctx, "rabbitmq_connected"), "connected to RabbitMQ")

	return &RabbitMQ{
		Conn:    conn,
		Channel: channel,
		log:     log,
	}, nil
}

// DeclareExchange declares a durable topic exchange.
func (r *RabbitMQ) DeclareExchange(name string) error {
	return r.Channel.ExchangeDeclare(
		name,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}

// Publish sends one persistent JSON message to the exchange.
func (r *RabbitMQ) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isClosed {
		return fmt.Errorf("rabbitmq connection is closed")
	}

	return r.Channel.PublishWithContext(ctx, exchange, routingKey, false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
}

// Close shuts down the channel and connection.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isClosed {
		return nil
	}
	r.isClosed = true

	if err := r.Channel.Close(); err != nil {
		r.log.Warn(context.Background(), "failed to close RabbitMQ channel", "err", err.Error())
	}
	return r.Conn.Close()
}
