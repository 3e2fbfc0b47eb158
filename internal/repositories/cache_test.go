package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbmohler/lmsmono/internal/common"
)

func TestCacheRepository_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCacheRepository(db)

	t.Run("hit trims whitespace", func(t *testing.T) {
		mock.ExpectGet("key").SetVal("  value  ")

		val, err := repo.Get(context.Background(), "key")
		require.NoError(t, err)
		assert.Equal(t, "value", val)
	})

	t.Run("miss maps to data not found", func(t *testing.T) {
		mock.ExpectGet("gone").RedisNil()

		_, err := repo.Get(context.Background(), "gone")
		assert.ErrorIs(t, err, common.ErrDataNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepository_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCacheRepository(db)

	mock.ExpectSet("key", "value", time.Minute).SetVal("OK")

	err := repo.Set(context.Background(), "key", "value", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepository_SetIfNotExists(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCacheRepository(db)

	mock.ExpectSetNX("lock", "1", time.Second).SetVal(true)
	mock.ExpectSetNX("lock", "1", time.Second).SetVal(false)

	ok, err := repo.SetIfNotExists(context.Background(), "lock", "1", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetIfNotExists(context.Background(), "lock", "1", time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepository_Del(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCacheRepository(db)

	mock.ExpectDel("a", "b").SetVal(2)

	err := repo.Del(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
