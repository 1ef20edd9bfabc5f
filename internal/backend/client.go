// Package backend is the typed REST client for the upstream ERP API. All
// response-shape quirks (the optional {"data": ...} wrapper, the
// insufficient-stock error body) are decoded here, once, so the rest of the
// gateway works with plain structs and typed errors.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rizkyamr/order-console/internal/category"
	"github.com/rizkyamr/order-console/internal/draft"
	"github.com/rizkyamr/order-console/internal/stock"
)

const maxBodyBytes = 1 << 20

type Client struct {
	base string
	hc   *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: baseURL,
		hc:   &http.Client{Timeout: timeout},
	}
}

// Order is the server-owned order as returned by the create endpoint.
type Order struct {
	ID             string               `json:"id"`
	OrderNumber    string               `json:"order_number"`
	PaymentStatus  draft.PaymentStatus  `json:"payment_status"`
	ShippingStatus draft.ShippingStatus `json:"shipping_status"`
	GrandTotal     decimal.Decimal      `json:"grand_total"`
	PaidAmount     decimal.Decimal      `json:"paid_amount"`
}

type Transfer struct {
	FromStoreID      string `json:"from_store_id"`
	ToStoreID        string `json:"to_store_id"`
	ProductVariantID string `json:"product_variant_id"`
	Quantity         int    `json:"quantity"`
	Notes            string `json:"notes"`
	Status           string `json:"status"`
}

type TransferBatch struct {
	OrderID   string     `json:"order_id"`
	Transfers []Transfer `json:"transfers"`
}

type stockCheckRequest struct {
	StoreID string            `json:"store_id"`
	Items   []stock.CheckItem `json:"items"`
}

type createOrderRequest struct {
	draft.Draft
	ForceCreateDespiteStock int `json:"force_create_despite_stock"`
}

func (c *Client) StockAvailability(ctx context.Context, storeID string, items []stock.CheckItem) (stock.CheckResult, error) {
	var res stock.CheckResult
	err := c.post(ctx, "/stock-availability-check", stockCheckRequest{StoreID: storeID, Items: items}, &res)
	if err != nil {
		return stock.CheckResult{}, err
	}
	return res, nil
}

func (c *Client) CreateOrder(ctx context.Context, d draft.Draft, force bool) (Order, error) {
	req := createOrderRequest{Draft: d}
	if force {
		req.ForceCreateDespiteStock = 1
	}
	var ord Order
	if err := c.post(ctx, "/orders", req, &ord); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (c *Client) CreateTransferBatch(ctx context.Context, batch TransferBatch) error {
	return c.post(ctx, "/inventory-transfers/batch", batch, nil)
}

func (c *Client) Categories(ctx context.Context) ([]category.Category, error) {
	var out []category.Category
	if err := c.get(ctx, "/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := decodeInto(body, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
