// Package draft canonicalizes raw order-form input into the request
// payload the upstream orders endpoint expects.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type ShippingStatus string

const (
	ShippingPending    ShippingStatus = "pending"
	ShippingProcessing ShippingStatus = "processing"
	ShippingShipped    ShippingStatus = "shipped"
	ShippingDelivered  ShippingStatus = "delivered"
	ShippingCancelled  ShippingStatus = "cancelled"
	ShippingCompleted  ShippingStatus = "completed"
)

// Form is the order form as the console posts it: numerics still strings,
// optional fields possibly empty, specifications still a free-form map.
type Form struct {
	CustomerID      string     `json:"customer_id"`
	StoreID         string     `json:"store_id"`
	ShippingAddress string     `json:"shipping_address"`
	PaymentMethod   string     `json:"payment_method"`
	Notes           string     `json:"notes"`
	ShippingFee     string     `json:"shipping_fee"`
	TaxAmount       string     `json:"tax_amount"`
	DiscountAmount  string     `json:"discount_amount"`
	Items           []FormItem `json:"items"`
}

type FormItem struct {
	ProductVariantID     string         `json:"product_variant_id"` // empty = custom item
	ProductName          string         `json:"product_name"`
	SKU                  string         `json:"sku"`
	Quantity             string         `json:"quantity"`
	UnitPrice            string         `json:"unit_price"`
	IsStockedSale        bool           `json:"is_stocked_sale"`
	CustomSpecifications map[string]any `json:"custom_specifications"`
}

// Draft is the canonical create-order payload.
type Draft struct {
	CustomerID      string          `json:"customer_id"`
	StoreID         string          `json:"store_id"`
	ShippingStatus  ShippingStatus  `json:"shipping_status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	ShippingAddress *string         `json:"shipping_address"`
	PaymentMethod   *string         `json:"payment_method"`
	Notes           *string         `json:"notes"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Items           []Item          `json:"items"`
}

type Item struct {
	ProductVariantID     *string         `json:"product_variant_id"`
	ProductName          string          `json:"product_name"`
	SKU                  string          `json:"sku"`
	Quantity             int             `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	IsStockedSale        bool            `json:"is_stocked_sale"`
	CustomSpecifications *string         `json:"custom_specifications"`
}

var ErrInvalid = errors.New("invalid order draft")

// Build canonicalizes a form. Pure: the same form always yields the same
// draft (specification maps serialize with sorted keys). Malformed numerics
// coerce to zero and are left for Validate to reject.
func Build(f Form) Draft {
	d := Draft{
		CustomerID:      strings.TrimSpace(f.CustomerID),
		StoreID:         strings.TrimSpace(f.StoreID),
		ShippingStatus:  ShippingPending,
		PaymentStatus:   PaymentPending,
		ShippingAddress: optional(f.ShippingAddress),
		PaymentMethod:   optional(f.PaymentMethod),
		Notes:           optional(f.Notes),
		ShippingFee:     toDecimal(f.ShippingFee),
		TaxAmount:       toDecimal(f.TaxAmount),
		DiscountAmount:  toDecimal(f.DiscountAmount),
	}
	if len(f.Items) > 0 {
		d.Items = make([]Item, 0, len(f.Items))
	}
	for _, it := range f.Items {
		d.Items = append(d.Items, Item{
			ProductVariantID:     optional(it.ProductVariantID),
			ProductName:          strings.TrimSpace(it.ProductName),
			SKU:                  strings.TrimSpace(it.SKU),
			Quantity:             toInt(it.Quantity),
			UnitPrice:            toDecimal(it.UnitPrice),
			IsStockedSale:        it.IsStockedSale,
			CustomSpecifications: encodeSpecs(it.CustomSpecifications),
		})
	}
	return d
}

// Validate holds the draft invariants the gateway enforces before any
// network call. Errors wrap ErrInvalid.
func (d Draft) Validate() error {
	if d.CustomerID == "" {
		return fmt.Errorf("%w: customer_id is required", ErrInvalid)
	}
	if d.StoreID == "" {
		return fmt.Errorf("%w: store_id is required", ErrInvalid)
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrInvalid)
	}
	for i, it := range d.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %d: quantity must be positive", ErrInvalid, i)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item %d: unit price must not be negative", ErrInvalid, i)
		}
		if it.IsStockedSale && it.ProductVariantID == nil {
			return fmt.Errorf("%w: item %d: stocked sale requires a product variant", ErrInvalid, i)
		}
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func toInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func toDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// encodeSpecs serializes a specification map to a JSON string, or nil when
// the map is absent or empty. encoding/json writes map keys sorted, so the
// result is deterministic.
func encodeSpecs(m map[string]any) *string {
	if len(m) == 0 {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
