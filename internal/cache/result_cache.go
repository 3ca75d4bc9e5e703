package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"interviewlens/internal/model"
)

type ResultCache interface {
	Set(ctx context.Context, record *model.ResultRecord) error
	// Get returns nil without error on a cache miss.
	Get(ctx context.Context, candidateID string) (*model.ResultRecord, error)
	Delete(ctx context.Context, candidateID string) error
}

type resultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultCache(client *redis.Client) ResultCache {
	return &resultCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *resultCache) Set(ctx context.Context, record *model.ResultRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "result:"+record.CandidateID, data, c.ttl).Err()
}

func (c *resultCache) Get(ctx context.Context, candidateID string) (*model.ResultRecord, error) {
	data, err := c.client.Get(ctx, "result:"+candidateID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record model.ResultRecord
	err = json.Unmarshal([]byte(data), &record)
	return &record, err
}

func (c *resultCache) Delete(ctx context.Context, candidateID string) error {
	return c.client.Del(ctx, "result:"+candidateID).Err()
}
