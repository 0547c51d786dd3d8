package viewservice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
	"golang.org/x/exp/rand"
)

func NewViewService(mb common.MessageConsumer, counter ViewCounter, logger ViewLogger) *ViewService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ViewService{
		mb:        mb,
		counter:   counter,
		logger:    logger,
		baseDelay: defaultBaseDelay,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// CountViews consumes view events in the background until Close is called or
// the delivery channel closes.
func (s *ViewService) CountViews() {
	msgs, err := s.mb.Consume(common.BlogViewedKey, common.BlogExchange, common.BlogViewedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var data struct {
					BlogID string `json:"blog_id"`
				}

				err := json.Unmarshal(msg.Body, &data)
				if err != nil || data.BlogID == "" {
					s.logger.Error("could not unmarshal message", slog.String("body", string(msg.Body)))
					msg.Ack(false)
					continue
				}

				s.increment(data.BlogID)
				msg.Ack(false)

			case <-s.ctx.Done():
				s.logger.Info("stopping CountViews due to context cancellation")
				return
			}
		}
	}()
}

// increment retries with exponential backoff and jitter. A deleted blog is not retried.
func (s *ViewService) increment(id string) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.counter.IncrementViews(s.ctx, id, 1)
		if err == nil {
			return
		}

		if errors.Is(err, store.ErrRecordNotFound) {
			s.logger.Info("dropping view of missing blog", slog.String("blog_id", id))
			return
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying view count", slog.String("blog_id", id), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return
		}
	}

	s.logger.Error("could not count view", slog.String("blog_id", id))
}

func (s *ViewService) Close() {
	s.cancel()
}
