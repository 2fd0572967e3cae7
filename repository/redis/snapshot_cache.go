package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/commerce/repository"
)

type snapshotCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewProductSnapshotCache creates a Redis-backed product snapshot cache.
func NewProductSnapshotCache(client *redislib.Client, ttl time.Duration) repository.ProductSnapshotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &snapshotCache{
		client: client,
		prefix: "product:snapshot:",
		ttl:    ttl,
	}
}

func (c *snapshotCache) Get(ctx context.Context, id string) (*repository.ProductSnapshot, error) {
	result, err := c.client.Get(ctx, c.key(id)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, nil
		}
		return nil, err
	}

	var snapshot repository.ProductSnapshot
	if err := json.Unmarshal([]byte(result), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *snapshotCache) Save(ctx context.Context, snapshot repository.ProductSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(snapshot.ID), payload, c.ttl).Err()
}

func (c *snapshotCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *snapshotCache) key(id string) string {
	return fmt.Sprintf("%s%s", c.prefix, id)
}
