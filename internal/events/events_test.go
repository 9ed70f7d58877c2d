package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishJSON(t *testing.T) {
	bus := NewBus()
	var got MutationPayload

	bus.Subscribe(EventMutationSucceeded, func(event *Event) error {
		require.NotEmpty(t, event.Payload)
		return json.Unmarshal(event.Payload, &got)
	})

	err := bus.PublishJSON(EventMutationSucceeded, MutationPayload{
		Resource: "bookings",
		Action:   "delete",
		RecordID: 7,
		Message:  "Booking deleted",
	})
	require.NoError(t, err)
	assert.Equal(t, "bookings", got.Resource)
	assert.Equal(t, int64(7), got.RecordID)
}

func TestCenterRecordsMutations(t *testing.T) {
	bus := NewBus()
	center := NewCenter(bus, 3)

	require.NoError(t, bus.PublishJSON(EventMutationSucceeded, MutationPayload{
		Resource: "bookings", Message: "Booking updated",
	}))
	require.NoError(t, bus.PublishJSON(EventMutationFailed, MutationPayload{
		Resource: "users", Message: "Upstream rejected the change",
	}))

	feed := center.List()
	require.Len(t, feed, 2)
	assert.Equal(t, LevelError, feed[0].Level)
	assert.Equal(t, "users", feed[0].Resource)
	assert.Equal(t, LevelSuccess, feed[1].Level)
}

func TestCenterCapAndDismiss(t *testing.T) {
	center := &Center{cap: 2}

	first := center.Add(Notification{Message: "one"})
	center.Add(Notification{Message: "two"})
	center.Add(Notification{Message: "three"})

	feed := center.List()
	require.Len(t, feed, 2)
	assert.Equal(t, "three", feed[0].Message)

	assert.False(t, center.Dismiss(first.ID))
	assert.True(t, center.Dismiss(feed[0].ID))
	assert.Len(t, center.List(), 1)
}
