// Package events carries table change notifications from writers to admin screens
package events

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Channel is the redis pub/sub channel change events are published on
const Channel = "table_changes"

// Action is the kind of write that produced a change
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Tables that publish change events
const (
	TableSupportMessages = "support_messages"
	TableSidebarOffers   = "course_sidebar_offers"
	TableChangelog       = "changelog_entries"
	TableSiteSettings    = "site_settings"
)

// ChangeEvent describes one committed write
type ChangeEvent struct {
	Table  string `json:"table"`
	Action Action `json:"action"`
	ID     int    `json:"id"`
}

// RedisPublisher is the part of the redis client used to publish
type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher publishes change events to redis
type Publisher struct {
	client RedisPublisher
	logger *zap.Logger
}

// NewPublisher creates a new publisher. A nil client makes Publish a no-op.
func NewPublisher(client RedisPublisher, logger *zap.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger,
	}
}

// RedisClient is a redis client that can be checked for availability before publishing
type RedisClient interface {
	RedisPublisher
	Ping(ctx context.Context) *redis.StatusCmd
}

// ConnectPublisher pings client and returns a publisher over it. When the ping fails the
// returned publisher is a no-op, so writes never wait on an unreachable redis, and the
// ping error is returned alongside it.
func ConnectPublisher(ctx context.Context, client RedisClient, logger *zap.Logger) (*Publisher, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return NewPublisher(nil, logger), err
	}
	return NewPublisher(client, logger), nil
}

// Publish sends the event. Delivery is best effort: failures are logged and dropped.
func (p *Publisher) Publish(ctx context.Context, table string, action Action, id int) {
	if p == nil || p.client == nil {
		return
	}

	payload, err := json.Marshal(ChangeEvent{Table: table, Action: action, ID: id})
	if err != nil {
		p.logger.Warn("failed to encode change event", zap.Error(err))
		return
	}

	if err := p.client.Publish(ctx, Channel, payload).Err(); err != nil {
		p.logger.Warn("failed to publish change event",
			zap.String("table", table),
			zap.String("action", string(action)),
			zap.Int("id", id),
			zap.Error(err),
		)
	}
}
