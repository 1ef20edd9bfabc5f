package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/rizkyamr/order-console/internal/events"
	"github.com/rizkyamr/order-console/internal/kafkax"
	"github.com/rizkyamr/order-console/internal/redisx"
)

type Store interface {
	Insert(ctx context.Context, e Entry) error
}

// Service consumes the submission outcome topic and writes the journal.
type Service struct {
	Repo        Store
	Redis       *redis.Client // nil disables the dedup fast path
	ServiceName string
	Log         *logrus.Logger
}

// HandleOutcome is the consumer handler: decode envelope, dedup by event
// id, insert. The insert itself is idempotent, Redis just saves the
// round-trip for replays.
func (s *Service) HandleOutcome(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	switch env.EventType {
	case events.EventOrderSubmitted, events.EventOrderBackordered, events.EventSubmissionFailed:
	default:
		return nil // not ours
	}

	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
		if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[events.SubmissionOutcomePayload](env.Payload)
	if err != nil {
		return err
	}

	e := Entry{
		EventID:         env.EventID,
		SubmissionID:    p.SubmissionID,
		StoreID:         p.StoreID,
		CustomerID:      p.CustomerID,
		Status:          p.Status,
		Forced:          p.Forced,
		OrderID:         optional(p.OrderID),
		OrderNumber:     optional(p.OrderNumber),
		GrandTotal:      optional(p.GrandTotal),
		TransferWarning: optional(p.TransferWarning),
		Error:           optional(p.Error),
		OccurredAt:      env.OccurredAt,
	}
	if err := s.Repo.Insert(ctx, e); err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	if s.Log != nil {
		s.Log.WithFields(logrus.Fields{
			"submission_id": p.SubmissionID,
			"status":        p.Status,
		}).Debug("journal entry written")
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
