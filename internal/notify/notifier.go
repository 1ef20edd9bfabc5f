// Package notify turns a terminal submission outcome into exactly one
// user-facing notice and one event on the outcome stream.
package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/rizkyamr/order-console/internal/draft"
	"github.com/rizkyamr/order-console/internal/events"
	"github.com/rizkyamr/order-console/internal/kafkax"
	"github.com/rizkyamr/order-console/internal/submit"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is what the console shows the user. An empty NavigateTo means stay
// on the form (the draft is kept for correction and resubmission).
type Notice struct {
	Level      Level  `json:"level"`
	Message    string `json:"message"`
	NavigateTo string `json:"navigate_to,omitempty"`
}

// Publisher is satisfied by kafkax.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Notifier struct {
	Producer Publisher // nil disables event publishing
	Service  string
	Log      *logrus.Logger
}

// Notify builds the single notice for a terminal outcome and publishes the
// matching outcome event, keyed by submission id.
func (n *Notifier) Notify(submissionID, traceID string, d draft.Draft, out submit.Outcome) Notice {
	notice := buildNotice(out)
	n.publish(submissionID, traceID, d, out)
	return notice
}

func buildNotice(out submit.Outcome) Notice {
	switch out.Status {
	case submit.StatusSucceeded:
		return Notice{
			Level:      LevelSuccess,
			Message:    fmt.Sprintf("Order %s created", out.Order.OrderNumber),
			NavigateTo: orderRoute(out.Order.ID),
		}
	case submit.StatusBackordered:
		return Notice{
			Level:      LevelSuccess,
			Message:    fmt.Sprintf("Pre-order %s created despite stock shortage; it will be fulfilled after restock", out.Order.OrderNumber),
			NavigateTo: orderRoute(out.Order.ID),
		}
	case submit.StatusPartialSuccess:
		return Notice{
			Level:      LevelWarning,
			Message:    fmt.Sprintf("Order %s created, but %s", out.Order.OrderNumber, out.TransferWarning),
			NavigateTo: orderRoute(out.Order.ID),
		}
	default:
		return Notice{
			Level:   LevelError,
			Message: fmt.Sprintf("Order submission failed: %v", out.Err),
		}
	}
}

func orderRoute(orderID string) string {
	if orderID == "" {
		return "/orders"
	}
	return "/orders/" + orderID
}

func (n *Notifier) publish(submissionID, traceID string, d draft.Draft, out submit.Outcome) {
	if n.Producer == nil {
		return
	}
	payload := events.SubmissionOutcomePayload{
		SubmissionID: submissionID,
		StoreID:      d.StoreID,
		CustomerID:   d.CustomerID,
		Status:       string(out.Status),
		Forced:       out.Forced,
	}
	eventType := events.EventOrderSubmitted
	switch out.Status {
	case submit.StatusFailed:
		eventType = events.EventSubmissionFailed
		if out.Err != nil {
			payload.Error = out.Err.Error()
		}
	case submit.StatusBackordered:
		eventType = events.EventOrderBackordered
	}
	if out.Order.ID != "" {
		payload.OrderID = out.Order.ID
		payload.OrderNumber = out.Order.OrderNumber
		payload.GrandTotal = out.Order.GrandTotal.String()
	}
	payload.TransferWarning = out.TransferWarning

	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      n.Service,
		TraceID:       traceID,
		CorrelationID: submissionID,
		Payload:       kafkax.MustMarshal(payload),
	}
	n.Producer.Publish(events.PartitionKey(submissionID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	if n.Log != nil {
		n.Log.WithFields(logrus.Fields{
			"submission_id": submissionID,
			"status":        out.Status,
			"event":         eventType,
		}).Debug("outcome published")
	}
}
