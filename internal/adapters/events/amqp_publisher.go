package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"trip-planner-service/internal/domain"
)

const (
	exchangeName = "trip"
	publishWait  = 5 * time.Second

	routingKeySaved   = "trip.plan.saved"
	routingKeyDeleted = "trip.plan.deleted"
)

var errNotConnected = errors.New("not connected to a server")

// AMQPPublisher emits plan lifecycle events to a topic exchange.
// Publishing is best-effort: the planner treats a nil publisher or a
// failed publish as non-fatal.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	addr    string
}

// NewAMQPPublisher dials the broker and declares the trip exchange.
func NewAMQPPublisher(addr string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{addr: addr}
	if err := p.connect(); err != nil {
		return nil, err
	}
	slog.Info("AMQP publisher connected", "exchange", exchangeName)
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.addr)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("amqp declare exchange: %w", err)
	}

	p.mu.Lock()
	p.conn = conn
	p.channel = ch
	p.mu.Unlock()
	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	ch := p.channel
	p.mu.Unlock()
	if ch == nil {
		return errNotConnected
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishWait)
	defer cancel()

	err = ch.PublishWithContext(
		ctx,
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	slog.Debug("published plan event", "routingKey", routingKey)
	return nil
}

type planSavedEvent struct {
	PlanID      string    `json:"plan_id"`
	Destination string    `json:"destination"`
	Total       float64   `json:"total,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type planDeletedEvent struct {
	PlanID string `json:"plan_id"`
}

// PlanSaved publishes a trip.plan.saved event.
func (p *AMQPPublisher) PlanSaved(ctx context.Context, plan *domain.PlanSnapshot) error {
	evt := planSavedEvent{
		PlanID:      plan.ID,
		Destination: plan.Destination,
		CreatedAt:   plan.CreatedAt,
	}
	if plan.Cost != nil {
		evt.Total = plan.Cost.Total
	}
	return p.publish(ctx, routingKeySaved, evt)
}

// PlanDeleted publishes a trip.plan.deleted event.
func (p *AMQPPublisher) PlanDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, routingKeyDeleted, planDeletedEvent{PlanID: id})
}

// Close shuts down the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return errNotConnected
	}
	if err := p.channel.Close(); err != nil {
		return err
	}
	if err := p.conn.Close(); err != nil {
		return err
	}
	p.channel = nil
	p.conn = nil
	return nil
}
