package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryClient_GetSet(t *testing.T) {
	client := NewInMemoryClient[[]string]()
	defer client.Close()
	ctx := context.Background()

	_, err := client.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotExists)

	require.NoError(t, client.Set(ctx, "key", []string{"a", "b"}, time.Minute))

	got, err := client.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestInMemoryClient_Expiry(t *testing.T) {
	client := NewInMemoryClient[int]()
	defer client.Close()
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "key", 42, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, err := client.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrNotExists)
}

func TestInMemoryClient_GetOrSet(t *testing.T) {
	client := NewInMemoryClient[string]()
	defer client.Close()
	ctx := context.Background()

	calls := 0
	opts := GetOrSetOpts[string]{
		Key: "key",
		TTL: time.Minute,
		Callback: func() (string, error) {
			calls++
			return "value", nil
		},
	}

	got, err := client.GetOrSet(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	// second read is a hit, the callback stays at one call
	got, err = client.GetOrSet(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
	assert.Equal(t, 1, calls)

	_, err = client.GetOrSet(ctx, GetOrSetOpts[string]{Key: "other"})
	assert.ErrorIs(t, err, ErrCallbackNotProvided)
}
