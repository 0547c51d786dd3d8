package viewservice

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/blogdeck/internal/common"
)

// MockMessageConsumer delivers Bodies once and then closes the channel.
type MockMessageConsumer struct {
	mock.Mock
	Bodies []string
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	args := m.Called(key, exchange, queue)
	if err := args.Error(0); err != nil {
		return nil, err
	}

	msgsChan := make(chan amqp.Delivery)

	go func() {
		defer close(msgsChan)

		for _, body := range m.Bodies {
			msgsChan <- amqp.Delivery{Body: []byte(body)}
		}
	}()

	return msgsChan, nil
}

// MockCounter fails the first Failures calls for each blog with Err.
type MockCounter struct {
	mu       sync.Mutex
	Failures int
	Err      error
	attempts map[string]int
	views    map[string]int64
}

func (c *MockCounter) IncrementViews(ctx context.Context, id string, n int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attempts == nil {
		c.attempts = make(map[string]int)
		c.views = make(map[string]int64)
	}

	c.attempts[id]++
	if c.attempts[id] <= c.Failures {
		return c.Err
	}

	c.views[id] += n
	return nil
}

func (c *MockCounter) Views(id string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.views[id]
}

func (c *MockCounter) Attempts(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts[id]
}

type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Error(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Info(msg string, args ...any) {
	m.Called(msg, args)
}
