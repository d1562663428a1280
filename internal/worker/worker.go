package worker

import (
	"context"
	"time"

	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/models"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// NotificationDispatcher is worker sends queued notifications
type NotificationDispatcher struct {
	mailer Mailer
	queue  chan models.Notification
}

// NewNotificationDispatcher create new notification dispatcher
func NewNotificationDispatcher(mailer Mailer, size int) *NotificationDispatcher {
	return &NotificationDispatcher{
		mailer: mailer,
		queue:  make(chan models.Notification, size),
	}
}

// Notify queues notification without blocking, notification is dropped when queue is full
func (nd *NotificationDispatcher) Notify(n models.Notification) {
	if n.To == "" {
		logger.Log.Warn("notification without recipient dropped", zap.String("kind", n.Kind))
		return
	}

	select {
	case nd.queue <- n:
	default:
		logger.Log.Error("notification queue is full, notification dropped",
			zap.String("kind", n.Kind), zap.String("to", n.To))
	}
}

// ProcessNotifications sends notifications until ctx is done, then drains queue
func (nd *NotificationDispatcher) ProcessNotifications(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			nd.drain()
			logger.Log.Debug("notification dispatcher is done")
			return
		case n := <-nd.queue:
			nd.send(context.Background(), n)
		}
	}
}

func (nd *NotificationDispatcher) drain() {
	for {
		select {
		case n := <-nd.queue:
			nd.send(context.Background(), n)
		default:
			return
		}
	}
}

func (nd *NotificationDispatcher) send(ctx context.Context, n models.Notification) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := nd.mailer.SendEmail(ctx, n.To, n.Subject, n.Body); err != nil {
		logger.Log.Error("send notification", zap.String("kind", n.Kind), zap.Error(err))
		return
	}
	logger.Log.Debug("notification sent", zap.String("kind", n.Kind))
}

type Sweeper interface {
	Sweep() int
}

// SweepRateLimits drops expired rate limit windows periodically
func SweepRateLimits(ctx context.Context, sw Sweeper, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("rate limit sweeper is done")
			return
		case <-ticker.C:
			if n := sw.Sweep(); n > 0 {
				logger.Log.Debug("expired rate limit windows removed", zap.Int("count", n))
			}
		}
	}
}
