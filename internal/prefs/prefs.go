// Package prefs holds per-user table view configuration as an explicit,
// explicitly-scoped object with a pure encode/decode pair. No ambient
// singleton: every view receives its own config.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rizkyamr/order-console/internal/redisx"
)

type Column struct {
	Key     string `json:"key"`
	Visible bool   `json:"visible"`
}

type TableConfig struct {
	Columns  []Column `json:"columns"`
	PageSize int      `json:"page_size"`
	SortBy   string   `json:"sort_by,omitempty"`
	SortDesc bool     `json:"sort_desc"`
}

func Default() TableConfig {
	return TableConfig{PageSize: 20}
}

func Encode(c TableConfig) ([]byte, error) {
	return json.Marshal(c)
}

// Decode is Encode's inverse; empty input yields the default config.
func Decode(b []byte) (TableConfig, error) {
	if len(b) == 0 {
		return Default(), nil
	}
	var c TableConfig
	if err := json.Unmarshal(b, &c); err != nil {
		return TableConfig{}, fmt.Errorf("decode table config: %w", err)
	}
	if c.PageSize <= 0 {
		c.PageSize = Default().PageSize
	}
	return c, nil
}

type Store struct{ Redis *redis.Client }

func (s *Store) Get(ctx context.Context, userID, table string) (TableConfig, error) {
	key := fmt.Sprintf(redisx.KeyTablePrefs, userID, table)
	b, err := s.Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Default(), nil
	}
	if err != nil {
		return TableConfig{}, err
	}
	return Decode(b)
}

func (s *Store) Put(ctx context.Context, userID, table string, c TableConfig) error {
	b, err := Encode(c)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyTablePrefs, userID, table)
	return s.Redis.Set(ctx, key, b, 0).Err()
}
