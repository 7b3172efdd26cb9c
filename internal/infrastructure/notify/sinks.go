package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cognitive-shield/sentinel/internal/core/domain/notification"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
)

// LogSink writes notifications to the application log.
type LogSink struct {
	logger *logrus.Logger
}

func NewLogSink(logger *logrus.Logger) *LogSink { return &LogSink{logger: logger} }

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, n notification.Notification) error {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"notification_id": n.ID, "title": n.Title}).Info(n.Message)
	}
	return nil
}

// FeedSink keeps the most recent notifications, newest first, under the
// notifications key so the extension can show them.
type FeedSink struct {
	store ports.KVStore
	size  int
}

func NewFeedSink(store ports.KVStore, size int) *FeedSink {
	if size <= 0 {
		size = 20
	}
	return &FeedSink{store: store, size: size}
}

func (s *FeedSink) Name() string { return "feed" }

func (s *FeedSink) Deliver(ctx context.Context, n notification.Notification) error {
	feed, err := ReadFeed(ctx, s.store)
	switch {
	case errors.Is(err, ports.ErrDecode):
		// corrupt feed is replaced
		feed = nil
	case err != nil:
		return fmt.Errorf("read notification feed: %w", err)
	}
	feed = append([]notification.Notification{n}, feed...)
	if len(feed) > s.size {
		feed = feed[:s.size]
	}
	return ports.SetJSON(ctx, s.store, ports.KeyNotifications, feed)
}

// ReadFeed returns the stored notifications, newest first.
func ReadFeed(ctx context.Context, store ports.KVStore) ([]notification.Notification, error) {
	feed, ok, err := ports.GetJSON[[]notification.Notification](ctx, store, ports.KeyNotifications)
	if err != nil || !ok {
		return nil, err
	}
	return *feed, nil
}
