package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/snackerbot/server/internal/bot/model"
	errx "github.com/snackerbot/server/internal/core/error"
	logx "github.com/snackerbot/server/pkg/logger"
)

// RedisTokenRepository keeps tokens server-side under random ids so the
// opaque string handed to the chat platform stays short.
type RedisTokenRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisTokenRepository(rdb redis.Cmdable, ttl time.Duration) *RedisTokenRepository {
	return &RedisTokenRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisTokenRepository) tokenKey(id string) string {
	return fmt.Sprintf("choice:%s", id)
}

func (r *RedisTokenRepository) Encode(ctx context.Context, token model.ChoiceToken) (string, error) {
	b, err := json.Marshal(token)
	if err != nil {
		logx.Error().Err(err).Str("step", string(token.Step)).Msg("failed to marshal choice token")
		return "", fmt.Errorf("marshal token: %w", err)
	}

	id := uuid.NewString()
	key := r.tokenKey(id)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to store choice token")
		return "", errx.WrapRedis(err)
	}
	return id, nil
}

func (r *RedisTokenRepository) Decode(ctx context.Context, raw string) (model.ChoiceToken, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return model.ChoiceToken{}, fmt.Errorf("%w: %v", errx.ErrInvalidToken, err)
	}
	key := r.tokenKey(id.String())

	s, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logx.Warn().Str("key", key).Msg("choice token expired or unknown")
			return model.ChoiceToken{}, errx.ErrTokenExpired
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load choice token")
		return model.ChoiceToken{}, errx.WrapRedis(err)
	}

	var token model.ChoiceToken
	if err := json.Unmarshal([]byte(s), &token); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to unmarshal choice token")
		return model.ChoiceToken{}, fmt.Errorf("%w: %v", errx.ErrInvalidToken, err)
	}
	return token, nil
}

var _ model.TokenRepository = (*RedisTokenRepository)(nil)
