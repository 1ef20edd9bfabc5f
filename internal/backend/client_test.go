package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizkyamr/order-console/internal/draft"
	"github.com/rizkyamr/order-console/internal/stock"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func testDraft() draft.Draft {
	return draft.Build(draft.Form{
		CustomerID: "cust-1",
		StoreID:    "store-1",
		Items: []draft.FormItem{{
			ProductVariantID: "pv-1", ProductName: "Chair", SKU: "CH-01",
			Quantity: "2", UnitPrice: "100", IsStockedSale: true,
		}},
	})
}

func TestStockAvailabilityWrappedResponse(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock-availability-check", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "store-1", req["store_id"])

		_, _ = w.Write([]byte(`{"data":{"has_shortage":true,"suggestions":[
			{"product_variant_id":"pv-1","requested_quantity":10,"current_store_stock":5}
		]}}`))
	})

	res, err := c.StockAvailability(context.Background(), "store-1", []stock.CheckItem{{ProductVariantID: "pv-1", Quantity: 10}})
	require.NoError(t, err)
	assert.True(t, res.HasShortage)
	require.Len(t, res.Suggestions, 1)
}

func TestCreateOrderForceFlag(t *testing.T) {
	var got map[string]any
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		// bare response, no data wrapper
		_, _ = w.Write([]byte(`{"id":"ord-1","order_number":"SO-001","payment_status":"pending","shipping_status":"pending","grand_total":"200","paid_amount":"0"}`))
	})

	ord, err := c.CreateOrder(context.Background(), testDraft(), true)
	require.NoError(t, err)
	assert.Equal(t, "ord-1", ord.ID)
	assert.Equal(t, "SO-001", ord.OrderNumber)
	assert.Equal(t, float64(1), got["force_create_despite_stock"])

	_, err = c.CreateOrder(context.Background(), testDraft(), false)
	require.NoError(t, err)
	assert.Equal(t, float64(0), got["force_create_despite_stock"])
}

func TestCreateOrderStockShortageError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"INSUFFICIENT_STOCK","message":"not enough stock","suggestions":[
			{"product_variant_id":"pv-1","requested_quantity":10,"current_store_stock":5}
		]}}`))
	})

	_, err := c.CreateOrder(context.Background(), testDraft(), false)
	var shortage *StockShortageError
	require.ErrorAs(t, err, &shortage)
	require.Len(t, shortage.Suggestions, 1)
	assert.Equal(t, 5, shortage.Suggestions[0].ShortageQuantity)
	assert.Equal(t, stock.ClassPurchase, shortage.Suggestions[0].Classification)
}

func TestCreateOrderAPIError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"SERVER_ERROR","message":"boom"}`))
	})

	_, err := c.CreateOrder(context.Background(), testDraft(), false)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)

	var shortage *StockShortageError
	assert.False(t, errors.As(err, &shortage))
}

func TestCreateTransferBatch(t *testing.T) {
	var got TransferBatch
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory-transfers/batch", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	batch := TransferBatch{
		OrderID: "ord-1",
		Transfers: []Transfer{{
			FromStoreID: "store-2", ToStoreID: "store-1",
			ProductVariantID: "pv-1", Quantity: 5, Status: "pending",
		}},
	}
	require.NoError(t, c.CreateTransferBatch(context.Background(), batch))
	assert.Equal(t, batch, got)
}

func TestCategories(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"data":[{"id":"c1","parent_id":null,"name":"Furniture","sort_order":1}]}`))
	})

	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Furniture", cats[0].Name)
	assert.Nil(t, cats[0].ParentID)
}
