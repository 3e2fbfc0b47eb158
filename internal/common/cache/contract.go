package cache

import (
	"context"
	"errors"
	"time"
)

// Client is the cache surface the reference store reads through. The
// redis and in memory implementations are interchangeable behind it.
type Client[T any] interface {
	Get(ctx context.Context, key string) (T, error)
	Set(ctx context.Context, key string, object T, ttl time.Duration) error
	GetOrSet(ctx context.Context, opts GetOrSetOpts[T]) (T, error)
}

var (
	ErrNotExists           = errors.New("key not exists on cache storage")
	ErrCallbackNotProvided = errors.New("callback not provided")
	ErrInvalidType         = errors.New("invalid type result")
)

// GetOrSetOpts names the arguments of GetOrSet. Callback loads the
// value on a miss and its result is stored under Key for TTL.
type GetOrSetOpts[T any] struct {
	Key      string
	TTL      time.Duration
	Callback func() (T, error)
}
