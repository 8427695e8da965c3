package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/resihub/community-system/internal/core/domain"
)

// Publisher pushes lifecycle events to connected clients over Redis
// pub/sub. Channel naming:
//
//	complaint:<id>  – watchers of a single complaint
//	user:<id>       – a user's personal feed
//	community:<id>  – everyone in a community
type Publisher struct {
	client *redis.Client
}

// NewPublisher wraps the given Redis client.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish serializes the event as JSON and PUBLISHes it on channel.
func (p *Publisher) Publish(ctx context.Context, channel string, event domain.LifecycleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// ComplaintChannel returns the per-complaint channel name.
func ComplaintChannel(id string) string { return "complaint:" + id }

// UserChannel returns the per-user channel name.
func UserChannel(id string) string { return "user:" + id }

// CommunityChannel returns the per-community channel name.
func CommunityChannel(id string) string { return "community:" + id }
