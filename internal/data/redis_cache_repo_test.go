package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramatch/tramatch-web/internal/testutil"
)

func TestRedisCacheRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client, "test:cache:")
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		ttl := 5 * time.Minute
		require.NoError(t, repo.Set(ctx, "admin:overview", []byte(`{"users":3}`), ttl))

		got, err := repo.Get(ctx, "admin:overview")
		require.NoError(t, err)
		assert.JSONEq(t, `{"users":3}`, string(got))

		actualTTL := client.TTL(ctx, "test:cache:admin:overview").Val()
		assert.True(t, actualTTL > 0 && actualTTL <= ttl)
	})

	t.Run("missing key is nil", func(t *testing.T) {
		got, err := repo.Get(ctx, "no:such:key")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete several", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, repo.Set(ctx, "b", []byte("2"), time.Minute))

		require.NoError(t, repo.Delete(ctx, "a", "b", "never-set"))

		for _, k := range []string{"a", "b"} {
			got, err := repo.Get(ctx, k)
			require.NoError(t, err)
			assert.Nil(t, got, k)
		}
	})

	t.Run("empty key", func(t *testing.T) {
		require.Error(t, repo.Set(ctx, "", []byte("x"), time.Minute))
		_, err := repo.Get(ctx, "")
		require.Error(t, err)
		require.Error(t, repo.Delete(ctx, ""))
	})

	t.Run("health", func(t *testing.T) {
		require.NoError(t, repo.Health(ctx))
	})
}
