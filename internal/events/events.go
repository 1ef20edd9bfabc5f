// Package events defines the envelope and payloads for the submission
// outcome stream.
package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderSubmitted   = "OrderSubmitted"
	EventOrderBackordered = "OrderBackordered"
	EventSubmissionFailed = "SubmissionFailed"
)

const TopicSubmissionOutcome = "console.submission.outcome"

// Partition key = submission_id, so events for one submission stay ordered.
func PartitionKey(submissionID string) []byte { return []byte(submissionID) }

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g. "console-gateway"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // submission_id
	Payload       json.RawMessage `json:"payload"`
}

type SubmissionOutcomePayload struct {
	SubmissionID    string `json:"submission_id"`
	StoreID         string `json:"store_id"`
	CustomerID      string `json:"customer_id"`
	Status          string `json:"status"` // succeeded | backordered | partial_success | failed
	Forced          bool   `json:"forced"`
	OrderID         string `json:"order_id,omitempty"`
	OrderNumber     string `json:"order_number,omitempty"`
	GrandTotal      string `json:"grand_total,omitempty"`
	TransferWarning string `json:"transfer_warning,omitempty"`
	Error           string `json:"error,omitempty"`
}
