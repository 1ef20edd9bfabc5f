package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rizkyamr/order-console/internal/draft"
	"github.com/rizkyamr/order-console/internal/redisx"
)

type CheckItem struct {
	ProductVariantID string `json:"product_variant_id"`
	Quantity         int    `json:"quantity"`
}

type CheckResult struct {
	HasShortage bool         `json:"has_shortage"`
	Suggestions []Suggestion `json:"suggestions"`
}

// AvailabilityAPI is the slice of the backend client the checker needs.
type AvailabilityAPI interface {
	StockAvailability(ctx context.Context, storeID string, items []CheckItem) (CheckResult, error)
}

// Checker runs the pre-submission availability check. Custom line items
// (no catalog variant) are exempt from checking; a draft with no checkable
// items skips the backend call entirely.
type Checker struct {
	API   AvailabilityAPI
	Redis *redis.Client // nil disables caching
	TTL   time.Duration
}

func (c *Checker) Check(ctx context.Context, storeID string, items []draft.Item) (CheckResult, error) {
	checkable := make([]CheckItem, 0, len(items))
	for _, it := range items {
		if it.ProductVariantID == nil {
			continue
		}
		checkable = append(checkable, CheckItem{ProductVariantID: *it.ProductVariantID, Quantity: it.Quantity})
	}
	if len(checkable) == 0 {
		return CheckResult{}, nil
	}

	key := cacheKey(storeID, checkable)
	if c.Redis != nil {
		if s, err := c.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			var res CheckResult
			if json.Unmarshal([]byte(s), &res) == nil {
				return res, nil
			}
		}
	}

	res, err := c.API.StockAvailability(ctx, storeID, checkable)
	if err != nil {
		return CheckResult{}, fmt.Errorf("stock availability check: %w", err)
	}
	for i, s := range res.Suggestions {
		res.Suggestions[i] = s.Normalize()
	}

	if c.Redis != nil {
		if b, err := json.Marshal(res); err == nil {
			ttl := c.TTL
			if ttl <= 0 {
				ttl = redisx.TTLStockCheck
			}
			_ = c.Redis.Set(ctx, key, b, ttl).Err()
		}
	}
	return res, nil
}

func cacheKey(storeID string, items []CheckItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s=%d", it.ProductVariantID, it.Quantity))
	}
	sort.Strings(parts)
	return fmt.Sprintf(redisx.KeyStockCheck, storeID, strings.Join(parts, ","))
}
