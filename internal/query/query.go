// Package query caches API reads by key and coordinates invalidation after
// writes. Entries younger than the policy's stale time are served from the
// cache; errors are never cached.
package query

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/naveenspark/liftlog/internal/logging"
)

// Policy controls caching and retries for reads.
type Policy struct {
	StaleTime  time.Duration
	Retry      int
	RetryDelay time.Duration
	// RefetchOnFocus re-runs queries when a view regains focus.
	RefetchOnFocus bool
}

// DefaultPolicy serves results for five minutes and never retries.
func DefaultPolicy() Policy {
	return Policy{
		StaleTime:  5 * time.Minute,
		Retry:      0,
		RetryDelay: time.Second,
	}
}

// Client runs queries against a Cache.
type Client struct {
	cache  Cache
	policy Policy
	scope  string
	now    func() time.Time
	log    *slog.Logger
}

// NewClient returns a query client. A nil cache means an in-memory one.
func NewClient(cache Cache, policy Policy, log *slog.Logger) *Client {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{cache: cache, policy: policy, now: time.Now, log: log}
}

// Scoped returns a client sharing the cache whose keys are namespaced by
// scope, typically the signed-in user's id.
func (c *Client) Scoped(scope string) *Client {
	cp := *c
	cp.scope = scope
	return &cp
}

func (c *Client) Policy() Policy { return c.policy }

func (c *Client) key(k Key) string {
	return c.scope + ":" + storageKey(k)
}

// Fetch returns the cached value for key if it is fresh, otherwise runs fn
// (retrying per policy) and caches a successful result.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	sk := c.key(key)

	if entry, ok, err := c.cache.Get(ctx, sk); err != nil {
		c.log.Warn("query cache read", slog.String("key", sk), logging.Err(err))
	} else if ok && c.now().Sub(entry.FetchedAt) < c.policy.StaleTime {
		var v T
		if err := json.Unmarshal(entry.Data, &v); err == nil {
			return v, nil
		}
	}

	v, err := retry(ctx, c, key, fn)
	if err != nil {
		return zero, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.cache.Set(ctx, sk, Entry{Data: data, FetchedAt: c.now()}); err != nil {
		c.log.Warn("query cache write", slog.String("key", sk), logging.Err(err))
	}
	return v, nil
}

func retry[T any](ctx context.Context, c *Client, key Key, fn func(context.Context) (T, error)) (T, error) {
	var (
		v   T
		err error
	)
	for attempt := 0; attempt <= c.policy.Retry; attempt++ {
		if attempt > 0 {
			c.log.Debug("query retry", slog.String("key", key.String()), slog.Int("attempt", attempt))
			select {
			case <-ctx.Done():
				return v, ctx.Err()
			case <-time.After(c.policy.RetryDelay):
			}
		}
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
	}
	return v, err
}

// Invalidate drops every cached entry under the given key prefixes.
func (c *Client) Invalidate(ctx context.Context, prefixes ...Key) {
	for _, p := range prefixes {
		if err := c.cache.DeletePrefix(ctx, c.key(p)); err != nil {
			c.log.Warn("query invalidate", slog.String("key", p.String()), logging.Err(err))
		}
	}
}

// Reset drops every entry in this client's scope.
func (c *Client) Reset(ctx context.Context) {
	if err := c.cache.DeletePrefix(ctx, c.scope+":"); err != nil {
		c.log.Warn("query reset", logging.Err(err))
	}
}

// Mutation describes the side effects of a successful write.
type Mutation[T any] struct {
	Invalidates []Key
	OnSuccess   func(T)
	OnError     func(error)
}

// Mutate runs a write once. On success the listed keys are invalidated
// before OnSuccess runs.
func Mutate[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error), m Mutation[T]) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		if m.OnError != nil {
			m.OnError(err)
		}
		return v, err
	}
	c.Invalidate(ctx, m.Invalidates...)
	if m.OnSuccess != nil {
		m.OnSuccess(v)
	}
	return v, nil
}
