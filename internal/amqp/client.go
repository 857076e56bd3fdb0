package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Routing keys published by the transaction service. Created and updated
// notifications carry the same payload and the report worker routes both to
// the identical aggregation call.
const (
	RoutingKeyCreated = "transaction.created"
	RoutingKeyUpdated = "transaction.updated"
)

// Handler processes a consumed transaction message.
type Handler func(ctx context.Context, msg *TransactionMessage) error

// Client wraps an AMQP connection with the exchange, queues and bindings the
// two services share.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	createdQueue string
	updatedQueue string
}

func NewClient(url, exchangeName, createdQueue, updatedQueue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		createdQueue: createdQueue,
		updatedQueue: updatedQueue,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	bindings := []struct {
		queue      string
		routingKey string
	}{
		{c.createdQueue, RoutingKeyCreated},
		{c.updatedQueue, RoutingKeyUpdated},
	}
	for _, b := range bindings {
		_, err = c.channel.QueueDeclare(
			b.queue, // name
			true,    // durable
			false,   // delete when unused
			false,   // exclusive
			false,   // no-wait
			nil,     // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", b.queue, err)
		}

		err = c.channel.QueueBind(b.queue, b.routingKey, c.exchangeName, false, nil)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", b.queue, err)
		}
	}

	return nil
}

// PublishCreated publishes a transaction.created message.
func (c *Client) PublishCreated(ctx context.Context, msg *TransactionMessage) error {
	return c.publish(ctx, RoutingKeyCreated, msg)
}

// PublishUpdated publishes a transaction.updated message.
func (c *Client) PublishUpdated(ctx context.Context, msg *TransactionMessage) error {
	return c.publish(ctx, RoutingKeyUpdated, msg)
}

func (c *Client) publish(ctx context.Context, routingKey string, msg *TransactionMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published transaction message",
		"transaction_id", msg.TransactionID,
		"user_id", msg.UserID,
		"routing_key", routingKey,
		"exchange", c.exchangeName)

	return nil
}

// ConsumeTransactions consumes both transaction queues until ctx is done.
//
// Ack policy: on handler failure the delivery is rejected without requeue and
// there is no dead-letter path, so the event is dropped. This is the
// documented failure policy of the report pipeline, not an oversight.
func (c *Client) ConsumeTransactions(ctx context.Context, handler Handler) error {
	created, err := c.channel.Consume(
		c.createdQueue, // queue
		"",             // consumer
		false,          // auto-ack (we want manual ack)
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("start consuming %s: %w", c.createdQueue, err)
	}

	updated, err := c.channel.Consume(c.updatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming %s: %w", c.updatedQueue, err)
	}

	slog.InfoContext(ctx, "Started consuming transaction messages",
		"created_queue", c.createdQueue,
		"updated_queue", c.updatedQueue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-created:
			if !ok {
				return fmt.Errorf("created queue channel closed")
			}
			c.dispatch(ctx, delivery, handler)
		case delivery, ok := <-updated:
			if !ok {
				return fmt.Errorf("updated queue channel closed")
			}
			c.dispatch(ctx, delivery, handler)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, delivery amqp091.Delivery, handler Handler) {
	msg, err := TransactionMessageFromJSON(delivery.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal message",
			"error", err,
			"routing_key", delivery.RoutingKey)
		delivery.Nack(false, false) // reject, don't requeue
		return
	}

	if err := handler(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to handle message, dropping",
			"error", err,
			"transaction_id", msg.TransactionID,
			"routing_key", delivery.RoutingKey)
		delivery.Nack(false, false) // drop: no retry, no dead-letter
		return
	}

	delivery.Ack(false)
	slog.InfoContext(ctx, "Processed transaction message",
		"transaction_id", msg.TransactionID,
		"routing_key", delivery.RoutingKey)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
