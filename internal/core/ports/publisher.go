package ports

import (
	"context"
	"time"
)

// LocationSample is one position report pushed to the realtime feed.
type LocationSample struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// LocationPublisher writes samples to the realtime location feed keyed by
// talent id, for consumption by client-side map views.
type LocationPublisher interface {
	Publish(ctx context.Context, talentID string, sample LocationSample) error
}
