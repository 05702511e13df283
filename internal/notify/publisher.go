// Package notify moves form events through RabbitMQ and turns them into manager e-mails.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	Publish(ctx context.Context, ev domain.FormEvent) error
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher publishes events to a durable queue through the default exchange.
type AMQPPublisher struct {
	mu      sync.Mutex // amqp channels are not safe for concurrent publishing
	ch      amqpChannel
	queue   string
	timeout time.Duration
}

// DeclareQueue declares the durable event queue shared by the api and the notifier.
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // auto delete
		false, // exclusive
		false, // no wait
		nil,
	)
}

func NewAMQPPublisher(ch *amqp.Channel, queue string, timeout time.Duration) (*AMQPPublisher, error) {
	if _, err := DeclareQueue(ch, queue); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &AMQPPublisher{ch: ch, queue: queue, timeout: timeout}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev domain.FormEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         string(ev.Type),
			MessageId:    ev.FormID,
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.FormEvent) error { return nil }
