package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := TableConfig{
		Columns: []Column{
			{Key: "order_number", Visible: true},
			{Key: "grand_total", Visible: false},
		},
		PageSize: 50,
		SortBy:   "created_at",
		SortDesc: true,
	}

	b, err := Encode(cfg)
	require.NoError(t, err)
	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDecodeEmptyYieldsDefault(t *testing.T) {
	got, err := Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestDecodeRepairsPageSize(t *testing.T) {
	got, err := Decode([]byte(`{"page_size":0}`))
	require.NoError(t, err)
	assert.Equal(t, Default().PageSize, got.PageSize)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("{"))
	assert.Error(t, err)
}
