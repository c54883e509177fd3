package storage

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/redis/go-redis/v9"
)

// Redis stores the token under <prefix>:token, for headless agents that
// share one identity across processes.
type Redis struct {
	client redis.UniversalClient
	key    string
}

var _ TokenStorage = (*Redis)(nil)

// NewRedis creates a Redis-backed slot.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	key := TokenKey
	if prefix != "" {
		key = prefix + ":" + TokenKey
	}
	return &Redis{client: client, key: key}
}

// Key returns the Redis key the token is stored under.
func (r *Redis) Key() string {
	return r.key
}

func (r *Redis) Get(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && token == "") {
		return "", apperrors.Wrapf(apperrors.ErrNotFound, "redis %s", r.key)
	}
	if err != nil {
		return "", apperrors.Wrapf(storageErr(err), "redis get %s", r.key)
	}
	return token, nil
}

func (r *Redis) Set(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if err := r.client.Set(ctx, r.key, token, 0).Err(); err != nil {
		return apperrors.Wrapf(storageErr(err), "redis set %s", r.key)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return apperrors.Wrapf(storageErr(err), "redis del %s", r.key)
	}
	return nil
}
