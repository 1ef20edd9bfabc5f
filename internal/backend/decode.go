package backend

import (
	"encoding/json"
	"fmt"

	"github.com/rizkyamr/order-console/internal/stock"
)

// The backend answers some routes bare and some wrapped in {"data": ...},
// depending on which controller generation served them. decodeInto accepts
// both so callers never re-check.
func decodeInto(body []byte, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(body, out)
}

// APIError is any non-2xx answer that is not the insufficient-stock shape.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (http %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("backend: http %d", e.StatusCode)
}

const codeInsufficientStock = "INSUFFICIENT_STOCK"

// StockShortageError is the create endpoint's stock re-validation saying no.
// It is an alternate-path signal, not a hard failure.
type StockShortageError struct {
	Suggestions []stock.Suggestion
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("backend: insufficient stock for %d item(s)", len(e.Suggestions))
}

type errorBody struct {
	Code        string             `json:"code"`
	Message     string             `json:"message"`
	Suggestions []stock.Suggestion `json:"suggestions"`
}

func decodeError(status int, body []byte) error {
	// error bodies may be wrapped in {"error": ...} or flat
	var wrapped struct {
		Err *errorBody `json:"error"`
	}
	eb := errorBody{}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Err != nil {
		eb = *wrapped.Err
	} else if err := json.Unmarshal(body, &eb); err != nil {
		return &APIError{StatusCode: status, Message: string(body)}
	}

	if eb.Code == codeInsufficientStock {
		suggestions := eb.Suggestions
		for i, s := range suggestions {
			suggestions[i] = s.Normalize()
		}
		return &StockShortageError{Suggestions: suggestions}
	}
	return &APIError{StatusCode: status, Code: eb.Code, Message: eb.Message}
}
