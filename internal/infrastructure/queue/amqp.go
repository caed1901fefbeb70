package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/metrics"
)

const (
	publishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
)

// Client publishes and consumes domain events over a durable direct exchange.
// The queue is bound with its own name as routing key.
type Client struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
	log      zerolog.Logger
}

// Dial connects to url and declares the exchange, queue and binding.
func Dial(url, exchange, queue string, log zerolog.Logger) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &Client{conn: conn, channel: channel, exchange: exchange, queue: queue, log: log}
	if err := c.setup(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return c, nil
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(c.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := c.channel.QueueBind(c.queue, c.queue, c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Publish sends ev as a persistent JSON message.
func (c *Client) Publish(ctx context.Context, ev domain.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchange, c.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    ev.ID,
		Type:         string(ev.Type),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	})
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(string(ev.Type), "error").Inc()
		return fmt.Errorf("publish event: %w", err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(string(ev.Type), "ok").Inc()
	c.log.Debug().
		Str("event_id", ev.ID).
		Str("event_type", string(ev.Type)).
		Str("username", ev.Username).
		Msg("event published")
	return nil
}

// Consume delivers events to handle until ctx is cancelled or the channel
// closes. Undecodable messages are dropped; handler failures are requeued.
func (c *Client) Consume(ctx context.Context, handle func(context.Context, domain.Event) error) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}
	c.log.Info().Str("queue", c.queue).Msg("consuming events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			ev, err := decodeEvent(d.Body)
			if err != nil {
				c.log.Error().Err(err).Msg("dropping undecodable message")
				_ = d.Nack(false, false)
				continue
			}
			if err := handle(ctx, ev); err != nil {
				c.log.Error().Err(err).Str("event_id", ev.ID).Msg("event handling failed")
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// ConsumeForever keeps a consumer attached to the broker, reconnecting with
// exponential backoff after failures. It returns when ctx is cancelled.
func ConsumeForever(ctx context.Context, url, exchange, queue string, log zerolog.Logger, handle func(context.Context, domain.Event) error) {
	for attempt := 0; ; attempt++ {
		c, err := Dial(url, exchange, queue, log)
		if err == nil {
			attempt = 0
			err = c.Consume(ctx, handle)
			_ = c.Close()
		}
		if ctx.Err() != nil {
			return
		}

		wait := exponentialBackoff(attempt)
		log.Warn().Err(err).Dur("retry_in", wait).Msg("event consumer disconnected")
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func decodeEvent(body []byte) (domain.Event, error) {
	var ev domain.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return domain.Event{}, fmt.Errorf("decode event: %w", err)
	}
	if ev.Type == "" {
		return domain.Event{}, errors.New("decode event: missing type")
	}
	return ev, nil
}

// NopPublisher discards events. It is used when no broker is configured.
type NopPublisher struct {
	Log zerolog.Logger
}

func (p NopPublisher) Publish(_ context.Context, ev domain.Event) error {
	p.Log.Debug().Str("event_type", string(ev.Type)).Msg("event publishing disabled")
	return nil
}
