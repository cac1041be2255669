package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/models"
)

// NewClient connects to redis and pings it.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	opts.ReadTimeout = time.Duration(cfg.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(cfg.WriteTimeout) * time.Second
	opts.DialTimeout = time.Duration(cfg.DialTimeout) * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RSVPCache caches fetchRsvps results per place identifier.
type RSVPCache struct {
	rdb kv
	ttl time.Duration
}

func NewRSVPCache(rdb kv, ttl time.Duration) *RSVPCache {
	return &RSVPCache{rdb: rdb, ttl: ttl}
}

func (c *RSVPCache) key(id string) string {
	return fmt.Sprintf("rsvps:%s", id)
}

// Get returns the cached records for id. The boolean is false on a miss.
func (c *RSVPCache) Get(ctx context.Context, id string) ([]models.RSVP, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}

	var rsvps []models.RSVP
	if err := json.Unmarshal(raw, &rsvps); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached rsvps: %w", err)
	}
	if rsvps == nil {
		rsvps = []models.RSVP{}
	}
	return rsvps, true, nil
}

// Set stores the records for id with the configured TTL.
func (c *RSVPCache) Set(ctx context.Context, id string, rsvps []models.RSVP) error {
	b, err := json.Marshal(rsvps)
	if err != nil {
		return fmt.Errorf("failed to marshal rsvps: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(id), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached records for id.
func (c *RSVPCache) Invalidate(ctx context.Context, id string) error {
	if err := c.rdb.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}
