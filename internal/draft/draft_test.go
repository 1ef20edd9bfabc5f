package draft

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		CustomerID: "cust-1",
		StoreID:    "store-1",
		Items: []FormItem{{
			ProductVariantID: "pv-1",
			ProductName:      "Chair",
			SKU:              "CH-01",
			Quantity:         "2",
			UnitPrice:        "150.50",
			IsStockedSale:    true,
		}},
	}
}

func TestBuildDefaults(t *testing.T) {
	d := Build(validForm())

	assert.Equal(t, ShippingPending, d.ShippingStatus)
	assert.Equal(t, PaymentPending, d.PaymentStatus)
	assert.True(t, d.ShippingFee.IsZero())
	assert.True(t, d.TaxAmount.IsZero())
	assert.True(t, d.DiscountAmount.IsZero())
	assert.Nil(t, d.ShippingAddress)
	assert.Nil(t, d.PaymentMethod)
	assert.Nil(t, d.Notes)
}

func TestBuildCoercions(t *testing.T) {
	f := validForm()
	f.ShippingAddress = "  Jl. Sudirman 12  "
	f.ShippingFee = "10.00"
	f.Items[0].Quantity = "3"
	f.Items[0].UnitPrice = "99.9"

	d := Build(f)

	require.NotNil(t, d.ShippingAddress)
	assert.Equal(t, "Jl. Sudirman 12", *d.ShippingAddress)
	assert.True(t, d.ShippingFee.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, 3, d.Items[0].Quantity)
	assert.True(t, d.Items[0].UnitPrice.Equal(decimal.RequireFromString("99.9")))
	require.NotNil(t, d.Items[0].ProductVariantID)
	assert.Equal(t, "pv-1", *d.Items[0].ProductVariantID)
}

func TestBuildCustomItemHasNilVariant(t *testing.T) {
	f := validForm()
	f.Items[0].ProductVariantID = ""
	f.Items[0].IsStockedSale = false

	d := Build(f)
	assert.Nil(t, d.Items[0].ProductVariantID)
}

func TestBuildSpecifications(t *testing.T) {
	t.Run("absent and empty map both serialize to nil", func(t *testing.T) {
		f := validForm()
		assert.Nil(t, Build(f).Items[0].CustomSpecifications)

		f.Items[0].CustomSpecifications = map[string]any{}
		assert.Nil(t, Build(f).Items[0].CustomSpecifications)
	})

	t.Run("non-empty map serializes with sorted keys", func(t *testing.T) {
		f := validForm()
		f.Items[0].CustomSpecifications = map[string]any{
			"width": "120cm", "color": "oak", "legs": 4,
		}
		specs := Build(f).Items[0].CustomSpecifications
		require.NotNil(t, specs)
		assert.Equal(t, `{"color":"oak","legs":4,"width":"120cm"}`, *specs)
	})
}

func TestBuildIsIdempotent(t *testing.T) {
	f := validForm()
	f.Items[0].CustomSpecifications = map[string]any{"b": 2, "a": 1, "c": 3}

	d1 := Build(f)
	d2 := Build(f)

	b1, err := json.Marshal(d1)
	require.NoError(t, err)
	b2, err := json.Marshal(d2)
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
}

func TestValidate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		require.NoError(t, Build(validForm()).Validate())
	})

	t.Run("malformed quantity coerces to zero and fails", func(t *testing.T) {
		f := validForm()
		f.Items[0].Quantity = "two"
		err := Build(f).Validate()
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("stocked sale without variant", func(t *testing.T) {
		f := validForm()
		f.Items[0].ProductVariantID = ""
		err := Build(f).Validate()
		assert.ErrorIs(t, err, ErrInvalid)
		assert.Contains(t, err.Error(), "variant")
	})

	t.Run("negative price", func(t *testing.T) {
		f := validForm()
		f.Items[0].UnitPrice = "-1"
		assert.ErrorIs(t, Build(f).Validate(), ErrInvalid)
	})

	t.Run("missing ids and items", func(t *testing.T) {
		assert.ErrorIs(t, Build(Form{}).Validate(), ErrInvalid)

		f := validForm()
		f.Items = nil
		assert.ErrorIs(t, Build(f).Validate(), ErrInvalid)
	})
}
