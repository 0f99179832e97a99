package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentlink/appcore/internal/core/ports"
)

const defaultFeedTTL = 5 * time.Minute

// LocationFeed is the realtime location datastore consumed by client-side
// map views. Each talent's latest position lives under location:<talent_id>
// with a TTL so stale entries age out; every write is also published on
// location-updates:<talent_id> for live subscribers.
type LocationFeed struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocationFeed creates a LocationFeed wrapping the given Redis client.
// A non-positive ttl falls back to the default.
func NewLocationFeed(client *redis.Client, ttl time.Duration) *LocationFeed {
	if ttl <= 0 {
		ttl = defaultFeedTTL
	}
	return &LocationFeed{client: client, ttl: ttl}
}

// Publish writes one sample to the feed.
func (f *LocationFeed) Publish(ctx context.Context, talentID string, sample ports.LocationSample) error {
	raw, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("location feed: encode: %w", err)
	}

	if err := f.client.Set(ctx, f.key(talentID), raw, f.ttl).Err(); err != nil {
		return fmt.Errorf("location feed: set: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel(talentID), raw).Err(); err != nil {
		return fmt.Errorf("location feed: publish: %w", err)
	}
	return nil
}

// Latest returns the most recent sample for a talent, or nil when the feed
// holds none (never reported, or TTL expired).
func (f *LocationFeed) Latest(ctx context.Context, talentID string) (*ports.LocationSample, error) {
	raw, err := f.client.Get(ctx, f.key(talentID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("location feed: get: %w", err)
	}

	var sample ports.LocationSample
	if err := json.Unmarshal(raw, &sample); err != nil {
		return nil, fmt.Errorf("location feed: decode: %w", err)
	}
	return &sample, nil
}

func (f *LocationFeed) key(talentID string) string {
	return "location:" + talentID
}

func (f *LocationFeed) channel(talentID string) string {
	return "location-updates:" + talentID
}
