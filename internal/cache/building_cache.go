package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/neighborly-app/backend/internal/models"
)

// SearchTTL keeps building search results warm briefly. Search results only
// go stale when member counts move, and those are best-effort counters
// anyway, so a short TTL is enough.
const SearchTTL = 2 * time.Minute

// BuildingCache caches building-search results keyed by the normalized
// search parameters, msgpack-encoded. Safe to use with a nil RedisCache.
type BuildingCache struct {
	redis *RedisCache
}

func NewBuildingCache(redis *RedisCache) *BuildingCache {
	return &BuildingCache{redis: redis}
}

func searchKey(city, state, addressFilter string) string {
	return "buildings:search:" + strings.ToLower(strings.Join(
		[]string{state, city, addressFilter}, "|"))
}

// GetSearch returns the cached result set and whether there was a hit.
// Decode failures count as misses; stale encodings just fall through to
// the store.
func (bc *BuildingCache) GetSearch(ctx context.Context, city, state, addressFilter string) ([]models.Building, bool) {
	if bc == nil || bc.redis == nil {
		return nil, false
	}
	raw, err := bc.redis.Get(ctx, searchKey(city, state, addressFilter))
	if err != nil || raw == nil {
		return nil, false
	}
	var buildings []models.Building
	if err := msgpack.Unmarshal(raw, &buildings); err != nil {
		return nil, false
	}
	return buildings, true
}

func (bc *BuildingCache) SetSearch(ctx context.Context, city, state, addressFilter string, buildings []models.Building) error {
	if bc == nil || bc.redis == nil {
		return nil
	}
	raw, err := msgpack.Marshal(buildings)
	if err != nil {
		return fmt.Errorf("encode search result: %w", err)
	}
	return bc.redis.Set(ctx, searchKey(city, state, addressFilter), raw, SearchTTL)
}
