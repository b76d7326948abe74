package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/redis/go-redis/v9"
)

type redisHistoryRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisHistoryRepository(client *redis.Client, ttl time.Duration) HistoryRepository {
	return &redisHistoryRepository{client: client, ttl: ttl}
}

func historyKey(imageID string) string {
	return fmt.Sprintf("history:%s", imageID)
}

func (r *redisHistoryRepository) Append(ctx context.Context, imageID string, customizations ...entity.CustomizationDTO) error {
	if len(customizations) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(customizations))
	for i := range customizations {
		values = append(values, &customizations[i])
	}

	key := historyKey(imageID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisHistoryRepository) List(ctx context.Context, imageID string) ([]entity.CustomizationDTO, error) {
	raw, err := r.client.LRange(ctx, historyKey(imageID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	out := make([]entity.CustomizationDTO, 0, len(raw))
	for _, item := range raw {
		var dto entity.CustomizationDTO
		if err := json.Unmarshal([]byte(item), &dto); err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

func (r *redisHistoryRepository) Clear(ctx context.Context, imageID string) error {
	return r.client.Del(ctx, historyKey(imageID)).Err()
}
