package events

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// Routing keys published to the storefront queue.
const (
	queueName          = "storefront_events"
	TypeOrderCreated   = "order.created"
	TypePaymentUpdated = "payment.updated"
)

// Publisher emits storefront events. Implementations must be safe to call
// with a nil receiver guard upstream; order flow treats publish failures as
// log-only.
type Publisher interface {
	Publish(eventType string, payload interface{}) error
	Close() error
}

// Client is an AMQP-backed Publisher with a durable queue declared upfront.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *log.Logger
}

func NewClient(url string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare %s: %w", queueName, err)
	}

	return &Client{conn: conn, channel: ch, logger: logger}, nil
}

type envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

func (c *Client) Publish(eventType string, payload interface{}) error {
	body, err := json.Marshal(envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = c.channel.Publish("", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	c.logger.Printf("events: published type=%s", eventType)
	return nil
}

func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close amqp client: %v", errs)
	}
	return nil
}
