package submit

import "github.com/rizkyamr/order-console/internal/backend"

type Status string

const (
	// StatusSucceeded: order created through the normal path.
	StatusSucceeded Status = "succeeded"
	// StatusBackordered: order created with the force flag, to be
	// fulfilled after restock.
	StatusBackordered Status = "backordered"
	// StatusPartialSuccess: order created but the transfer batch failed.
	// The order is not rolled back; the warning travels with the outcome.
	StatusPartialSuccess Status = "partial_success"
	StatusFailed         Status = "failed"
)

// Outcome is the single terminal result of a submission attempt. Exactly one
// Outcome reaches the notifier per attempt.
type Outcome struct {
	Status          Status
	Order           backend.Order // zero value when Status is failed
	Forced          bool
	TransferWarning string // set on partial success
	Err             error  // set when Status is failed
}
