package wizard

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubera-fin/kubera-loan-backend/internal/models"
)

func newRedisCache(t *testing.T) *RedisDraftCache {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDraftCache(client)
}

func sampleDraft() *CachedDraft {
	return &CachedDraft{
		FormData: map[string]map[string]any{
			"applicant": {"firstName": "Asha", "email": "asha@example.in"},
			"type":      {"loanType": "abroad"},
		},
		UploadedDocs: map[string]DocumentSlot{
			models.DocTypePhoto: {Name: "me.png", Size: 10, Uploaded: true},
		},
		ApplicationID: "app-1",
	}
}

func TestDraftCaches(t *testing.T) {
	caches := map[string]DraftCache{
		"redis":  newRedisCache(t),
		"memory": NewMemoryDraftCache(),
	}

	for name, cache := range caches {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("empty cache reports no draft", func(t *testing.T) {
				_, err := cache.Load(ctx)
				assert.ErrorIs(t, err, ErrNoDraft)
			})

			t.Run("save then load round trips", func(t *testing.T) {
				require.NoError(t, cache.Save(ctx, sampleDraft()))

				got, err := cache.Load(ctx)
				require.NoError(t, err)
				assert.Equal(t, "app-1", got.ApplicationID)
				assert.Equal(t, "Asha", got.FormData["applicant"]["firstName"])
				assert.Equal(t, "me.png", got.UploadedDocs[models.DocTypePhoto].Name)
			})

			t.Run("save overwrites the previous draft", func(t *testing.T) {
				next := sampleDraft()
				next.ApplicationID = "app-2"
				require.NoError(t, cache.Save(ctx, next))

				got, err := cache.Load(ctx)
				require.NoError(t, err)
				assert.Equal(t, "app-2", got.ApplicationID)
			})

			t.Run("clear empties the cache", func(t *testing.T) {
				require.NoError(t, cache.Clear(ctx))
				_, err := cache.Load(ctx)
				assert.ErrorIs(t, err, ErrNoDraft)
			})
		})
	}
}

func TestRedisDraftCacheUsesFixedKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRedisDraftCache(client)
	require.NoError(t, cache.Save(context.Background(), sampleDraft()))

	assert.True(t, mr.Exists(CacheKey))
}
