package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"mesto-api/internal/model"
)

// EventPublisher sends activity events to the events queue. One channel is
// opened lazily and reused; it is reopened after the broker closes it.
type EventPublisher struct {
	conn      *amqp.Connection
	queueName string

	mu sync.Mutex
	ch *amqp.Channel
}

func NewEventPublisher(conn *amqp.Connection, queueName string) *EventPublisher {
	return &EventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, event model.Activity) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			Timestamp:    event.OccurredAt,
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		_ = ch.Close()
		p.ch = nil
		return fmt.Errorf("publish event failed: %w", err)
	}
	return nil
}

func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}

func (p *EventPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	if err := DeclareEventsQueue(ch, p.queueName); err != nil {
		_ = ch.Close()
		return nil, err
	}
	p.ch = ch
	return ch, nil
}
