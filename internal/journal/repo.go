// Package journal persists submission outcomes for the console's reports
// pages.
package journal

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	EventID         string    `json:"event_id"`
	SubmissionID    string    `json:"submission_id"`
	StoreID         string    `json:"store_id"`
	CustomerID      string    `json:"customer_id"`
	Status          string    `json:"status"`
	Forced          bool      `json:"forced"`
	OrderID         *string   `json:"order_id"`
	OrderNumber     *string   `json:"order_number"`
	GrandTotal      *string   `json:"grand_total"`
	TransferWarning *string   `json:"transfer_warning"`
	Error           *string   `json:"error"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type Repo struct{ DB *pgxpool.Pool }

// Insert is idempotent on event_id: replayed events are no-ops.
func (r *Repo) Insert(ctx context.Context, e Entry) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO submission_journal(
			event_id, submission_id, store_id, customer_id, status, forced,
			order_id, order_number, grand_total, transfer_warning, error, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (event_id) DO NOTHING`,
		e.EventID, e.SubmissionID, e.StoreID, e.CustomerID, e.Status, e.Forced,
		e.OrderID, e.OrderNumber, e.GrandTotal, e.TransferWarning, e.Error, e.OccurredAt,
	)
	return err
}

func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx, `
		SELECT event_id, submission_id, store_id, customer_id, status, forced,
		       order_id, order_number, grand_total, transfer_warning, error, occurred_at
		FROM submission_journal
		ORDER BY occurred_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.EventID, &e.SubmissionID, &e.StoreID, &e.CustomerID, &e.Status, &e.Forced,
			&e.OrderID, &e.OrderNumber, &e.GrandTotal, &e.TransferWarning, &e.Error, &e.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
