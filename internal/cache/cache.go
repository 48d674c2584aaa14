// Package cache stores solved layouts keyed by their instance so repeated
// requests skip the search.
//
// Backends:
//   - NullCache: never stores anything
//   - FileCache: one JSON file per entry, for the CLI
//   - RedisCache: shared cache for server deployments
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/piwi3910/PalletCut/internal/engine"
	"github.com/piwi3910/PalletCut/internal/layout"
	"github.com/piwi3910/PalletCut/internal/model"
)

// DefaultTTL is how long results are kept.
const DefaultTTL = 30 * 24 * time.Hour

// Cache is a byte store with expiry.
type Cache interface {
	// Get returns the data stored at key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data at key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key returns the cache key of an instance. Instances that differ only in
// the orientation of the pallet or the box share the count, but not the box
// positions, so they get distinct keys. The memory budget is part of the
// key: a budget too small for the instance must fail, not hit. An unset
// budget and the explicit default share a key.
func Key(p engine.Parameters) string {
	budget := p.MemoryBudget
	if budget == 0 {
		budget = engine.DefaultMemoryBudget
	}
	data, _ := json.Marshal([]any{p.Length, p.Width, p.BoxLength, p.BoxWidth, p.Depth, budget})
	hash := sha256.Sum256(data)
	return fmt.Sprintf("layout:%s", hex.EncodeToString(hash[:]))
}

// GetResult loads the result cached for prob solved within budget. The
// problem's id and label are not part of the key and are overwritten by the
// caller's.
func GetResult(ctx context.Context, c Cache, prob model.Problem, budget int64) (model.Result, bool, error) {
	key := Key(layout.Params(prob, budget))
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return model.Result{}, false, err
	}
	var res model.Result
	if err := json.Unmarshal(data, &res); err != nil {
		// A corrupt entry is a miss.
		_ = c.Delete(ctx, key)
		return model.Result{}, false, nil
	}
	res.Problem = prob
	return res, true, nil
}

// SetResult stores res under the key of its problem and budget.
func SetResult(ctx context.Context, c Cache, res model.Result, budget int64, ttl time.Duration) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.Set(ctx, Key(layout.Params(res.Problem, budget)), data, ttl)
}

// New opens the backend named by kind: "none", "file" or "redis".
func New(ctx context.Context, kind, dir, redisAddr string) (Cache, error) {
	switch kind {
	case "", "none":
		return NewNullCache(), nil
	case "file":
		return NewFileCache(dir)
	case "redis":
		return NewRedisCache(ctx, RedisConfig{Addr: redisAddr})
	}
	return nil, fmt.Errorf("unknown cache backend %q", kind)
}
