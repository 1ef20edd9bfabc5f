package notify

import (
	"encoding/json"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizkyamr/order-console/internal/backend"
	"github.com/rizkyamr/order-console/internal/draft"
	"github.com/rizkyamr/order-console/internal/events"
	"github.com/rizkyamr/order-console/internal/submit"
)

type fakePublisher struct {
	keys   []string
	values [][]byte
}

func (f *fakePublisher) Publish(key, value []byte, _ ...kafkago.Header) {
	f.keys = append(f.keys, string(key))
	f.values = append(f.values, value)
}

func testDraft() draft.Draft {
	return draft.Draft{CustomerID: "cust-1", StoreID: "store-1"}
}

func order() backend.Order {
	return backend.Order{ID: "ord-1", OrderNumber: "SO-001"}
}

func TestNotifySuccess(t *testing.T) {
	pub := &fakePublisher{}
	n := &Notifier{Producer: pub, Service: "console-gateway"}

	notice := n.Notify("sub-1", "", testDraft(), submit.Outcome{Status: submit.StatusSucceeded, Order: order()})

	assert.Equal(t, LevelSuccess, notice.Level)
	assert.Contains(t, notice.Message, "SO-001")
	assert.Equal(t, "/orders/ord-1", notice.NavigateTo)

	require.Len(t, pub.values, 1, "exactly one event per terminal outcome")
	var env events.Envelope
	require.NoError(t, json.Unmarshal(pub.values[0], &env))
	assert.Equal(t, events.EventOrderSubmitted, env.EventType)
	assert.Equal(t, "sub-1", pub.keys[0])
}

func TestNotifyBackorderHasDistinctWording(t *testing.T) {
	pub := &fakePublisher{}
	n := &Notifier{Producer: pub, Service: "console-gateway"}

	success := buildNotice(submit.Outcome{Status: submit.StatusSucceeded, Order: order()})
	backorder := n.Notify("sub-2", "", testDraft(), submit.Outcome{
		Status: submit.StatusBackordered, Order: order(), Forced: true,
	})

	assert.Equal(t, LevelSuccess, backorder.Level)
	assert.NotEqual(t, success.Message, backorder.Message)
	assert.Contains(t, backorder.Message, "Pre-order")
	assert.Equal(t, "/orders/ord-1", backorder.NavigateTo)

	var env events.Envelope
	require.NoError(t, json.Unmarshal(pub.values[0], &env))
	assert.Equal(t, events.EventOrderBackordered, env.EventType)
}

func TestNotifyPartialSuccess(t *testing.T) {
	n := &Notifier{}
	notice := n.Notify("sub-3", "", testDraft(), submit.Outcome{
		Status: submit.StatusPartialSuccess, Order: order(),
		TransferWarning: "stock transfers could not be created: boom",
	})
	assert.Equal(t, LevelWarning, notice.Level)
	assert.Contains(t, notice.Message, "transfers could not be created")
	assert.Equal(t, "/orders/ord-1", notice.NavigateTo)
}

func TestNotifyFailureStaysOnForm(t *testing.T) {
	pub := &fakePublisher{}
	n := &Notifier{Producer: pub, Service: "console-gateway"}

	notice := n.Notify("sub-4", "", testDraft(), submit.Outcome{
		Status: submit.StatusFailed, Err: errors.New("creation failed"),
	})
	assert.Equal(t, LevelError, notice.Level)
	assert.Empty(t, notice.NavigateTo, "failure keeps the user on the form")

	var env events.Envelope
	require.NoError(t, json.Unmarshal(pub.values[0], &env))
	assert.Equal(t, events.EventSubmissionFailed, env.EventType)
}

func TestNavigationFallsBackToOrderList(t *testing.T) {
	notice := buildNotice(submit.Outcome{Status: submit.StatusSucceeded})
	assert.Equal(t, "/orders", notice.NavigateTo)
}
