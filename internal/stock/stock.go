// Package stock models store stock availability for order submission:
// per-item shortage suggestions coming back from the availability check and
// the decisions that resolve them.
package stock

import (
	"errors"
	"fmt"
)

type Classification string

const (
	ClassSufficient Classification = "sufficient"
	ClassTransfer   Classification = "transfer"
	ClassPurchase   Classification = "purchase"
	ClassMixed      Classification = "mixed"
)

type TransferOption struct {
	SourceStoreID     string `json:"source_store_id"`
	SourceStoreName   string `json:"source_store_name"`
	AvailableQuantity int    `json:"available_quantity"`
	SuggestedQuantity int    `json:"suggested_quantity"`
}

type Suggestion struct {
	ProductVariantID  string           `json:"product_variant_id"`
	RequestedQuantity int              `json:"requested_quantity"`
	CurrentStoreStock int              `json:"current_store_stock"`
	ShortageQuantity  int              `json:"shortage_quantity"`
	Classification    Classification   `json:"classification"`
	TransferOptions   []TransferOption `json:"transfer_options,omitempty"`
	PurchaseQuantity  int              `json:"purchase_quantity"`
}

// Normalize re-derives the fields the backend is supposed to keep
// consistent: shortage = max(0, requested - available), and classification
// sufficient iff shortage is zero.
func (s Suggestion) Normalize() Suggestion {
	short := s.RequestedQuantity - s.CurrentStoreStock
	if short < 0 {
		short = 0
	}
	s.ShortageQuantity = short
	if short == 0 {
		s.Classification = ClassSufficient
	} else if s.Classification == ClassSufficient || s.Classification == "" {
		// backend disagreed with its own arithmetic; reclassify from options
		if len(s.TransferOptions) > 0 && s.PurchaseQuantity > 0 {
			s.Classification = ClassMixed
		} else if len(s.TransferOptions) > 0 {
			s.Classification = ClassTransfer
		} else {
			s.Classification = ClassPurchase
		}
	}
	return s
}

type Action string

const (
	ActionTransfer Action = "transfer"
	ActionPurchase Action = "purchase"
	ActionMixed    Action = "mixed"
)

type TransferSource struct {
	SourceStoreID string `json:"source_store_id"`
	Quantity      int    `json:"quantity"`
}

type Decision struct {
	ProductVariantID string           `json:"product_variant_id"`
	Action           Action           `json:"action"`
	Transfers        []TransferSource `json:"transfers,omitempty"`
	PurchaseQuantity int              `json:"purchase_quantity"`
}

// CoveringQuantity is the total quantity this decision procures.
func (d Decision) CoveringQuantity() int {
	n := d.PurchaseQuantity
	for _, t := range d.Transfers {
		n += t.Quantity
	}
	return n
}

// DefaultDecision derives the initial decision for a shortage item from the
// system suggestion. Transfer quantities follow the suggested quantities but
// never exceed the shortage in total; any residual becomes a purchase.
func DefaultDecision(s Suggestion) Decision {
	d := Decision{ProductVariantID: s.ProductVariantID, Action: ActionPurchase}
	remaining := s.ShortageQuantity
	for _, opt := range s.TransferOptions {
		if remaining <= 0 {
			break
		}
		qty := opt.SuggestedQuantity
		if qty > remaining {
			qty = remaining
		}
		if qty <= 0 {
			continue
		}
		d.Transfers = append(d.Transfers, TransferSource{SourceStoreID: opt.SourceStoreID, Quantity: qty})
		remaining -= qty
	}
	d.PurchaseQuantity = remaining
	switch {
	case len(d.Transfers) > 0 && d.PurchaseQuantity > 0:
		d.Action = ActionMixed
	case len(d.Transfers) > 0:
		d.Action = ActionTransfer
	}
	return d
}

var ErrShortageNotCovered = errors.New("decision does not cover shortage")

// ValidateDecisions checks that every shortage item has a decision whose
// covering quantity reaches the shortage. A best-effort UX guard only; the
// backend re-validates on create.
func ValidateDecisions(suggestions []Suggestion, decisions []Decision) error {
	byVariant := make(map[string]Decision, len(decisions))
	for _, d := range decisions {
		byVariant[d.ProductVariantID] = d
	}
	for _, s := range suggestions {
		if s.ShortageQuantity == 0 {
			continue
		}
		d, ok := byVariant[s.ProductVariantID]
		if !ok {
			return fmt.Errorf("%w: no decision for variant %s", ErrShortageNotCovered, s.ProductVariantID)
		}
		if got := d.CoveringQuantity(); got < s.ShortageQuantity {
			return fmt.Errorf("%w: variant %s covers %d of %d",
				ErrShortageNotCovered, s.ProductVariantID, got, s.ShortageQuantity)
		}
	}
	return nil
}
