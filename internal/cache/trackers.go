package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hedgie-app/hedgie/internal/models"
)

// TrackerCache is a cache-aside layer over the tracker catalog. The
// catalog is read-only at request time, so entries only need a TTL, no
// write-through invalidation on the hot path.
type TrackerCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTrackerCache(client *redis.Client, ttl time.Duration) *TrackerCache {
	return &TrackerCache{
		client: client,
		ttl:    ttl,
	}
}

const trackersAllKey = "trackers:all"

func trackerKey(id int64) string {
	return fmt.Sprintf("trackers:%d", id)
}

// GetTrackers returns the cached catalog, or nil on a miss.
func (c *TrackerCache) GetTrackers(ctx context.Context) ([]models.Tracker, error) {
	data, err := c.client.Get(ctx, trackersAllKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var trackers []models.Tracker
	if err := json.Unmarshal(data, &trackers); err != nil {
		return nil, err
	}

	return trackers, nil
}

func (c *TrackerCache) SetTrackers(ctx context.Context, trackers []models.Tracker) error {
	data, err := json.Marshal(trackers)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, trackersAllKey, data, c.ttl).Err()
}

// GetTracker returns one cached tracker, or nil on a miss.
func (c *TrackerCache) GetTracker(ctx context.Context, id int64) (*models.Tracker, error) {
	data, err := c.client.Get(ctx, trackerKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tracker models.Tracker
	if err := json.Unmarshal(data, &tracker); err != nil {
		return nil, err
	}

	return &tracker, nil
}

func (c *TrackerCache) SetTracker(ctx context.Context, tracker *models.Tracker) error {
	data, err := json.Marshal(tracker)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, trackerKey(tracker.ID), data, c.ttl).Err()
}

// Invalidate drops all tracker keys. Called after seeding.
func (c *TrackerCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "trackers:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
