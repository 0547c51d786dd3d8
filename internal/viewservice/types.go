package viewservice

import (
	"context"
	"time"

	"github.com/sushihentaime/blogdeck/internal/common"
)

const (
	maxRetries       = 5
	defaultBaseDelay = 500 * time.Millisecond
)

// ViewService folds blog.viewed events into the stored view counts.
type ViewService struct {
	mb        common.MessageConsumer
	counter   ViewCounter
	logger    ViewLogger
	baseDelay time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
}

type ViewCounter interface {
	IncrementViews(ctx context.Context, id string, n int64) error
}

type ViewLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}
