package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

const (
	keyPrefix = "sku:"
	genPrefix = "sku:gen:"

	DefaultTTL = 5 * time.Minute
)

// RedisSkuCache caches single SKUs as JSON under sku:{skuId}. Every id also has
// a generation counter under sku:gen:{skuId}; Invalidate bumps it and Fill only
// writes while the counter still holds the value seen by Get.
type RedisSkuCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ domain.SkuCache = (*RedisSkuCache)(nil)

// NewRedisSkuCache creates a cache whose entries expire after ttl. Entries
// always expire: a non-positive ttl falls back to DefaultTTL.
func NewRedisSkuCache(client *redis.Client, ttl time.Duration) *RedisSkuCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisSkuCache{client: client, ttl: ttl}
}

func key(skuID uint64) string {
	return keyPrefix + strconv.FormatUint(skuID, 10)
}

func genKey(skuID uint64) string {
	return genPrefix + strconv.FormatUint(skuID, 10)
}

// Get reads the entry and its generation in one round trip. The record is
// nil on a miss.
func (c *RedisSkuCache) Get(ctx context.Context, skuID uint64) (*domain.Sku, uint64, error) {
	vals, err := c.client.MGet(ctx, key(skuID), genKey(skuID)).Result()
	if err != nil {
		return nil, 0, err
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, fmt.Errorf("generation of sku %d: %w", skuID, err)
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}
	var s domain.Sku
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, gen, fmt.Errorf("decode cached sku %d: %w", skuID, err)
	}
	return &s, gen, nil
}

var errGenerationMoved = errors.New("generation moved")

// Fill stores s if the generation of its id is still gen. A moved generation
// means an import ran after s was read, so s is dropped without error.
// Records without a sku_id are not cached.
func (c *RedisSkuCache) Fill(ctx context.Context, s domain.Sku, gen uint64) error {
	if s.SkuID == nil {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode sku: %w", err)
	}
	id := *s.SkuID

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey(id)).Uint64()
		if errors.Is(err, redis.Nil) {
			current, err = 0, nil
		}
		if err != nil {
			return err
		}
		if current != gen {
			return errGenerationMoved
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(id), data, c.ttl)
			return nil
		})
		return err
	}, genKey(id))

	if errors.Is(err, errGenerationMoved) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate bumps the generation of every id and deletes its entry in a
// single MULTI/EXEC.
func (c *RedisSkuCache) Invalidate(ctx context.Context, skuIDs ...uint64) error {
	if len(skuIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range skuIDs {
			pipe.Incr(ctx, genKey(id))
			pipe.Del(ctx, key(id))
		}
		return nil
	})
	return err
}

func parseGeneration(v interface{}) (uint64, error) {
	switch g := v.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseUint(g, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
