package resolution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rizkyamr/order-console/internal/draft"
	"github.com/rizkyamr/order-console/internal/redisx"
	"github.com/rizkyamr/order-console/internal/stock"
)

// PendingSubmission is a submission parked while the user resolves a
// shortage. Over HTTP the dialog spans two requests, so the draft and the
// suggestions wait in Redis under the resolution id.
type PendingSubmission struct {
	ID          string             `json:"id"`
	Draft       draft.Draft        `json:"draft"`
	Suggestions []stock.Suggestion `json:"suggestions"`
	CreatedAt   time.Time          `json:"created_at"`
}

var ErrNotFound = errors.New("resolution session not found or expired")

type Store struct {
	Redis *redis.Client
	TTL   time.Duration
}

func (s *Store) Save(ctx context.Context, p PendingSubmission) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pending submission: %w", err)
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = redisx.TTLResolution
	}
	return s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyResolution, p.ID), b, ttl).Err()
}

// Take loads and deletes in one step: a resolution is consumed exactly once.
func (s *Store) Take(ctx context.Context, id string) (PendingSubmission, error) {
	val, err := s.Redis.GetDel(ctx, fmt.Sprintf(redisx.KeyResolution, id)).Result()
	if errors.Is(err, redis.Nil) {
		return PendingSubmission{}, ErrNotFound
	}
	if err != nil {
		return PendingSubmission{}, err
	}
	var p PendingSubmission
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return PendingSubmission{}, fmt.Errorf("decode pending submission: %w", err)
	}
	return p, nil
}
