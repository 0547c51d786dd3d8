package common

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error
}

type MessageConsumer interface {
	Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error)
}

const (
	BlogExchange    Exchange   = "blog_exchange"
	BlogViewedQueue Queue      = "blog_viewed_queue"
	BlogViewedKey   BindingKey = "blog.viewed"
)

type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(URI string) (*MessageBroker, error) {
	conn, ch, err := connectAMQP(URI)
	if err != nil {
		return nil, err
	}

	return &MessageBroker{
		conn: conn,
		ch:   ch,
	}, nil
}

// DialMessageBroker keeps dialing URI with exponential backoff until it
// succeeds, maxRetries is exhausted or ctx is done.
func DialMessageBroker(ctx context.Context, URI string, maxRetries uint64, logger *slog.Logger) (*MessageBroker, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0

	var mb *MessageBroker
	dial := func() error {
		var err error
		mb, err = NewMessageBroker(URI)
		return err
	}

	notify := func(err error, next time.Duration) {
		logger.Warn("message broker not reachable, retrying",
			slog.String("error", err.Error()),
			slog.Duration("next_retry_in", next))
	}

	err := backoff.RetryNotify(dial, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx), notify)
	if err != nil {
		return nil, err
	}

	return mb, nil
}

func connectAMQP(URI string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(URI)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	return conn, ch, nil
}

// Close closes the connection and channel of the message broker.
func (mb *MessageBroker) Close() error {
	err := mb.ch.Close()
	if err != nil {
		return err
	}

	err = mb.conn.Close()
	if err != nil {
		return err
	}

	return nil
}

// SetupBlogExchange declares the blog exchange and binds the view queue to it.
func SetupBlogExchange(mb *MessageBroker) error {
	err := mb.ch.ExchangeDeclare(string(BlogExchange), "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = mb.ch.QueueDeclare(string(BlogViewedQueue), true, false, false, false, nil)
	if err != nil {
		return err
	}

	err = mb.ch.QueueBind(string(BlogViewedQueue), string(BlogViewedKey), string(BlogExchange), false, nil)
	if err != nil {
		return err
	}

	return nil
}

func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	err := mb.ch.PublishWithContext(ctx, string(exchange), string(key), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        msg,
	})
	if err != nil {
		return fmt.Errorf("could not publish message: %w", err)
	}

	return nil
}

func (mb *MessageBroker) Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error) {
	msgs, err := mb.ch.Consume(string(queue), string(key), false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume message: %w", err)
	}

	return msgs, nil
}
