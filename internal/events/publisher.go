// Package events publishes ledger notifications to a message broker.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher emits events after the corresponding write has committed.
// A publish failure never undoes the write.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) error { return nil }

func (NopPublisher) Close() error { return nil }

const (
	publishTimeout = 5 * time.Second
	// redialInterval is the minimum gap between attempts to reconnect to a
	// broker that dropped the connection.
	redialInterval = 2 * time.Second
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// AMQPPublisher publishes events to a durable topic exchange, using the
// event type as routing key. A dropped connection or channel is reopened
// lazily on the next Publish.
type AMQPPublisher struct {
	url          string
	exchangeName string

	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	closed   bool
	lastDial time.Time
}

// NewAMQPPublisher dials the broker and declares the exchange.
func NewAMQPPublisher(url, exchangeName string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchangeName: exchangeName}
	if err := p.ensureChannel(); err != nil {
		return nil, err
	}
	return p, nil
}

// ensureChannel opens the connection and channel when they are missing or
// closed. Callers hold p.mu.
func (p *AMQPPublisher) ensureChannel() error {
	if p.closed {
		return ErrPublisherClosed
	}

	if p.conn == nil || p.conn.IsClosed() {
		if since := time.Since(p.lastDial); !p.lastDial.IsZero() && since < redialInterval {
			return fmt.Errorf("dial AMQP: next attempt in %s", redialInterval-since)
		}
		p.lastDial = time.Now()
		p.channel = nil

		conn, err := amqp091.Dial(p.url)
		if err != nil {
			return fmt.Errorf("dial AMQP: %w", err)
		}
		p.conn = conn
		slog.Info("Connected to AMQP broker", "exchange", p.exchangeName)
	}

	if p.channel != nil && !p.channel.IsClosed() {
		return nil
	}

	channel, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.exchangeName, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	p.channel = channel
	return nil
}

// Publish sends the event as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, event *Event) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		event.Type,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		if p.channel.IsClosed() {
			p.channel = nil
		}
		return fmt.Errorf("publish event: %w", err)
	}

	slog.DebugContext(ctx, "Published ledger event",
		"type", event.Type,
		"group_id", event.GroupID,
		"entity_id", event.EntityID,
		"exchange", p.exchangeName)

	return nil
}

// Close closes the channel and the connection. Later publishes fail with
// ErrPublisherClosed.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		if err != nil && !errors.Is(err, amqp091.ErrClosed) {
			return err
		}
	}
	return nil
}
