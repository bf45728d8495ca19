package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures NewRedisCache.
type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
	// TTL bounds how long entries live in redis; stale entries are never
	// served, so this is normally the stale time.
	TTL time.Duration
}

// RedisCache is a Cache shared between liftlog processes.
type RedisCache struct {
	db     *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects and pings the server.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	const op = "query.NewRedisCache"
	db := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})
	if err := db.Ping(ctx).Err(); err != nil {
		db.Close() //nolint:errcheck // best-effort close
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisCache{db: db, prefix: opts.Prefix, ttl: opts.TTL}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (Entry, bool, error) {
	const op = "query.RedisCache.Get"
	val, err := r.db.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("%s: %w", op, err)
	}
	var e Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return Entry{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return e, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, e Entry) error {
	const op = "query.RedisCache.Set"
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.db.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	const op = "query.RedisCache.DeletePrefix"
	iter := r.db.Scan(ctx, 0, r.prefix+prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.db.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.db.Close()
}
