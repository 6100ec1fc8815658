package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// CacheKey is the fixed key the whole draft is stored under, the same
// one the browser build of the portal uses for its local storage.
const CacheKey = "kubera_loan_application"

// ErrNoDraft is returned when the cache holds nothing.
var ErrNoDraft = errors.New("no cached draft")

// CachedDraft is the serialized blob persisted after every mutation:
// the entire form, the document registry, and the application id.
type CachedDraft struct {
	FormData      map[string]map[string]any `json:"formData"`
	UploadedDocs  map[string]DocumentSlot   `json:"uploadedDocs"`
	ApplicationID string                    `json:"applicationId,omitempty"`
}

// DraftCache is the local-durability mechanism for an in-progress
// draft. There is no delta persistence; Save always writes the whole
// draft.
type DraftCache interface {
	Load(ctx context.Context) (*CachedDraft, error)
	Save(ctx context.Context, draft *CachedDraft) error
	Clear(ctx context.Context) error
}

// RedisDraftCache keeps the draft blob in redis under CacheKey.
type RedisDraftCache struct {
	client *redis.Client
	key    string
}

// NewRedisDraftCache creates a redis-backed draft cache.
func NewRedisDraftCache(client *redis.Client) *RedisDraftCache {
	return &RedisDraftCache{client: client, key: CacheKey}
}

func (c *RedisDraftCache) Load(ctx context.Context) (*CachedDraft, error) {
	raw, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoDraft
		}
		return nil, err
	}

	var draft CachedDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *RedisDraftCache) Save(ctx context.Context, draft *CachedDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, raw, 0).Err()
}

func (c *RedisDraftCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

// MemoryDraftCache is an in-process DraftCache for offline use and
// tests. Semantics match the redis cache, including the round trip
// through JSON.
type MemoryDraftCache struct {
	mu   sync.Mutex
	blob []byte
}

// NewMemoryDraftCache creates an empty in-memory draft cache.
func NewMemoryDraftCache() *MemoryDraftCache {
	return &MemoryDraftCache{}
}

func (c *MemoryDraftCache) Load(ctx context.Context) (*CachedDraft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blob == nil {
		return nil, ErrNoDraft
	}
	var draft CachedDraft
	if err := json.Unmarshal(c.blob, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *MemoryDraftCache) Save(ctx context.Context, draft *CachedDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.blob = raw
	return nil
}

func (c *MemoryDraftCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blob = nil
	return nil
}
