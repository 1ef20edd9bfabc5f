package submit

import (
	"context"
	"errors"
	"net/http"

	"github.com/rizkyamr/order-console/internal/backend"
	"github.com/rizkyamr/order-console/internal/draft"
	"github.com/rizkyamr/order-console/internal/stock"
)

// Kind classifies submission errors for logging and response bodies.
func Kind(err error) string {
	var shortage *backend.StockShortageError
	switch {
	case err == nil:
		return ""

	case errors.Is(err, draft.ErrInvalid),
		errors.Is(err, stock.ErrShortageNotCovered):
		return "validation_error"

	case errors.As(err, &shortage):
		return "stock_shortage_detected"

	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"

	case errors.Is(err, context.Canceled):
		return "canceled"

	default:
		return "creation_failed"
	}
}

func HTTPStatus(err error) int {
	var shortage *backend.StockShortageError
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, draft.ErrInvalid),
		errors.Is(err, stock.ErrShortageNotCovered):
		return http.StatusBadRequest

	case errors.As(err, &shortage):
		return http.StatusConflict

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		return http.StatusBadRequest

	default:
		return http.StatusBadGateway
	}
}
