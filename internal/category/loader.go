package category

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rizkyamr/order-console/internal/redisx"
)

type Source interface {
	Categories(ctx context.Context) ([]Category, error)
}

// Loader fetches the category list and serves the built tree, cached in
// Redis so every console page load does not round-trip to the backend.
type Loader struct {
	Source Source
	Redis  *redis.Client // nil disables caching
	TTL    time.Duration
}

func (l *Loader) Tree(ctx context.Context) ([]*Node, error) {
	if l.Redis != nil {
		if s, err := l.Redis.Get(ctx, redisx.KeyCategoryTree).Result(); err == nil && s != "" {
			var tree []*Node
			if json.Unmarshal([]byte(s), &tree) == nil {
				return tree, nil
			}
		}
	}

	flat, err := l.Source.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	tree := BuildTree(flat)

	if l.Redis != nil {
		if b, err := json.Marshal(tree); err == nil {
			ttl := l.TTL
			if ttl <= 0 {
				ttl = redisx.TTLCategoryTree
			}
			_ = l.Redis.Set(ctx, redisx.KeyCategoryTree, b, ttl).Err()
		}
	}
	return tree, nil
}
