package events

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// publishTimeout bounds a single broker publish
const publishTimeout = 5 * time.Second

// RabbitMQ publishes completion events to a durable queue
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// NewRabbitMQ connects to the broker and declares the queue
func NewRabbitMQ(url, queueName string) (*RabbitMQ, error) {
	if url == "" {
		return nil, fmt.Errorf("AMQP URL is required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	log.Info().Str("queue", q.Name).Msg("connected to RabbitMQ")
	return &RabbitMQ{conn: conn, channel: ch, queue: q}, nil
}

// Publish sends the event as a persistent JSON message
func (r *RabbitMQ) Publish(ctx context.Context, event CompletedEvent) error {
	body, err := event.Encode()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.AssessmentID.String(),
			Timestamp:    event.CompletedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish completion event: %w", err)
	}
	return nil
}

// Consume delivers events to handler until ctx is cancelled or the channel closes.
// Messages that fail to decode are rejected without requeue.
func (r *RabbitMQ) Consume(ctx context.Context, handler func(CompletedEvent) error) error {
	msgs, err := r.channel.Consume(
		r.queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			event, err := Decode(d.Body)
			if err != nil {
				log.Warn().Err(err).Msg("dropping malformed completion event")
				_ = d.Reject(false)
				continue
			}
			if err := handler(event); err != nil {
				log.Error().Err(err).Str("assessment_id", event.AssessmentID.String()).Msg("completion handler failed")
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close closes the channel and connection
func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
