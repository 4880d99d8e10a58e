package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/goodwiins/authflow"
)

// Redis persists the preference in Redis, keyed per installation via a
// prefix. Useful when the embedding client roams across devices behind
// a shared profile service.
type Redis struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedis creates a Redis store. An empty prefix defaults to "afc".
func NewRedis(redisClient redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "afc"
	}
	return &Redis{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (r *Redis) rememberKey() string {
	return r.prefix + ":remember_me"
}

func (r *Redis) emailKey() string {
	return r.prefix + ":saved_email"
}

// Load reads both fields in one round trip. Missing keys are the zero
// preference.
func (r *Redis) Load(ctx context.Context) (authflow.SavedCredentials, error) {
	values, err := r.redis.MGet(ctx, r.rememberKey(), r.emailKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return authflow.SavedCredentials{}, nil
		}
		return authflow.SavedCredentials{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(values) != 2 {
		return authflow.SavedCredentials{}, fmt.Errorf("%w: unexpected MGET reply", ErrUnavailable)
	}

	var saved authflow.SavedCredentials
	if s, ok := values[0].(string); ok {
		saved.RememberMe = s == "1"
	}
	if s, ok := values[1].(string); ok {
		saved.Email = s
	}

	// A flag without an email (or the reverse) is a torn record; report
	// it as empty so the caller never prefills half a preference.
	if !saved.RememberMe || saved.Email == "" {
		return authflow.SavedCredentials{}, nil
	}
	return saved, nil
}

// Save writes both fields atomically.
func (r *Redis) Save(ctx context.Context, email string) error {
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.rememberKey(), "1", 0)
		pipe.Set(ctx, r.emailKey(), email, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Clear deletes both fields.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.redis.Del(ctx, r.rememberKey(), r.emailKey()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
