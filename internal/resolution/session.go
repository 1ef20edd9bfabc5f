// Package resolution is the shortage resolution dialog as a state machine:
// it collects one decision per shortage item and ends in either a confirmed
// decision list or a force-create (backorder) signal.
package resolution

import (
	"errors"
	"fmt"

	"github.com/rizkyamr/order-console/internal/stock"
)

type State string

const (
	StateClosed       State = "closed"
	StateOpen         State = "open"
	StateConfirmed    State = "confirmed"
	StateForceCreated State = "force_created"
)

var validNext = map[State]map[State]bool{
	StateClosed:       {StateOpen: true},
	StateOpen:         {StateConfirmed: true, StateForceCreated: true, StateClosed: true},
	StateConfirmed:    {StateClosed: true},
	StateForceCreated: {StateClosed: true},
}

var (
	ErrNotOpen          = errors.New("resolution session is not open")
	ErrAlreadyOpen      = errors.New("resolution session is already open")
	ErrUnknownItem      = errors.New("no shortage for that item")
	ErrActionNotOffered = errors.New("action not offered for that item")
)

type Session struct {
	state       State
	suggestions []stock.Suggestion
	decisions   map[string]stock.Decision
}

func NewSession() *Session {
	return &Session{state: StateClosed}
}

func (s *Session) State() State { return s.state }

// Suggestions returns the shortage items the open session is resolving.
func (s *Session) Suggestions() []stock.Suggestion { return s.suggestions }

// Open seeds one default decision per shortage item. Sufficient items never
// enter the dialog.
func (s *Session) Open(suggestions []stock.Suggestion) error {
	if s.state != StateClosed {
		return ErrAlreadyOpen
	}
	s.suggestions = nil
	s.decisions = make(map[string]stock.Decision)
	for _, sug := range suggestions {
		sug = sug.Normalize()
		if sug.ShortageQuantity == 0 {
			continue
		}
		s.suggestions = append(s.suggestions, sug)
		s.decisions[sug.ProductVariantID] = stock.DefaultDecision(sug)
	}
	s.state = StateOpen
	return nil
}

// SetDecision replaces the decision for one shortage item. Mixed is only
// offered when the item has both a transfer option and a residual purchase
// quantity.
func (s *Session) SetDecision(variantID string, d stock.Decision) error {
	if s.state != StateOpen {
		return ErrNotOpen
	}
	sug, ok := s.suggestion(variantID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, variantID)
	}
	switch d.Action {
	case stock.ActionTransfer:
		if len(sug.TransferOptions) == 0 {
			return fmt.Errorf("%w: %s has no transfer options", ErrActionNotOffered, variantID)
		}
	case stock.ActionMixed:
		if len(sug.TransferOptions) == 0 || d.PurchaseQuantity <= 0 {
			return fmt.Errorf("%w: mixed needs a transfer option and a purchase residual", ErrActionNotOffered)
		}
	case stock.ActionPurchase:
	default:
		return fmt.Errorf("%w: unknown action %q", ErrActionNotOffered, d.Action)
	}
	d.ProductVariantID = variantID
	s.decisions[variantID] = d
	return nil
}

// Confirm validates coverage for every shortage item, emits the decision
// list, and closes the session.
func (s *Session) Confirm() ([]stock.Decision, error) {
	if s.state != StateOpen {
		return nil, ErrNotOpen
	}
	decisions := make([]stock.Decision, 0, len(s.suggestions))
	for _, sug := range s.suggestions {
		decisions = append(decisions, s.decisions[sug.ProductVariantID])
	}
	if err := stock.ValidateDecisions(s.suggestions, decisions); err != nil {
		return nil, err
	}
	s.transition(StateConfirmed)
	s.close()
	return decisions, nil
}

// ForceCreate bypasses all decisions: proceed as backorder ignoring stock.
func (s *Session) ForceCreate() error {
	if s.state != StateOpen {
		return ErrNotOpen
	}
	s.transition(StateForceCreated)
	s.close()
	return nil
}

// Close discards the session from any state. No decision state survives.
func (s *Session) Close() { s.close() }

func (s *Session) close() {
	s.suggestions = nil
	s.decisions = nil
	s.state = StateClosed
}

func (s *Session) transition(to State) {
	if !validNext[s.state][to] {
		// internal misuse, not user input
		panic(fmt.Sprintf("resolution: illegal transition %s -> %s", s.state, to))
	}
	s.state = to
}

func (s *Session) suggestion(variantID string) (stock.Suggestion, bool) {
	for _, sug := range s.suggestions {
		if sug.ProductVariantID == variantID {
			return sug, true
		}
	}
	return stock.Suggestion{}, false
}
