package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"mainstreet/pkg/logger"

	amqp "github.com/streadway/amqp"
)

// EventsQueue carries every Main Street domain event.
const EventsQueue = "mainstreet_events"

// Event is the envelope published for each domain event.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	// amqp channels are not safe for concurrent publishes
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the events queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareEventsQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info().Str("queue", EventsQueue).Msg("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

func declareEventsQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		EventsQueue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", EventsQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends an event of the given type to the events queue as JSON.
func (c *Client) Publish(eventType string, data map[string]any) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",          // exchange: default exchange
		EventsQueue, // routing key: the queue name
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         eventType,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logger.Debug().Str("type", eventType).Msg("Event published")
	return nil
}

// ConsumeEvents delivers every message on the events queue to handler until
// the channel closes. Messages the handler fails on are nacked without requeue.
func (c *Client) ConsumeEvents(handler func(Event) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		EventsQueue, // queue
		"",          // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logger.Info().Str("queue", EventsQueue).Msg("Waiting for events")

	for msg := range msgs {
		if err := handleDelivery(msg.Body, handler); err != nil {
			logger.Error().Err(err).Uint64("delivery_tag", msg.DeliveryTag).Msg("Error processing event")
			if nackErr := msg.Nack(false, false); nackErr != nil {
				logger.Error().Err(nackErr).Msg("Error nacking message")
			}
			continue
		}
		if ackErr := msg.Ack(false); ackErr != nil {
			logger.Error().Err(ackErr).Msg("Error acking message")
		}
	}
	return nil
}

func handleDelivery(body []byte, handler func(Event) error) error {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}
	return handler(evt)
}
