package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/khedma/sunday-school-backend/internal/config"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// FeedPublisher announces committed check-ins.
type FeedPublisher interface {
	Publish(ctx context.Context, evt model.AttendanceEvent) error
}

// AttendanceFeed relays check-in events between server instances over Redis
// Pub/Sub, one channel per civil date.
type AttendanceFeed struct {
	rdb *redis.Client
}

// NewAttendanceFeed creates an AttendanceFeed.
func NewAttendanceFeed(rdb *redis.Client) *AttendanceFeed {
	return &AttendanceFeed{rdb: rdb}
}

// Publish sends evt on the channel of its date.
func (f *AttendanceFeed) Publish(ctx context.Context, evt model.AttendanceEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return f.rdb.Publish(ctx, config.CacheKey.AttendanceFeedChannel(evt.Date), payload).Err()
}

// Subscribe opens a subscription to the events of one civil date. The caller
// closes it.
func (f *AttendanceFeed) Subscribe(ctx context.Context, date string) *redis.PubSub {
	return f.rdb.Subscribe(ctx, config.CacheKey.AttendanceFeedChannel(date))
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, model.AttendanceEvent) error { return nil }
