package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	hub.Publish("emp-1", Event{EmployeeID: "emp-1", Event: "attendance.updated", Data: "snapshot"})

	select {
	case got := <-ch:
		assert.Equal(t, "attendance.updated", got.Event)
		assert.Equal(t, "snapshot", got.Data)
	default:
		t.Fatal("expected buffered event for subscriber")
	}
}

func TestHub_PublishIsScopedToEmployee(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	hub.Publish("emp-2", Event{EmployeeID: "emp-2", Event: "attendance.updated"})

	select {
	case <-ch:
		t.Fatal("subscriber of emp-1 must not see emp-2 events")
	default:
	}
}

func TestHub_UnsubscribeRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("emp-1")
	require.Equal(t, 1, hub.SubscriberCount("emp-1"))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("emp-1"))
	assert.Equal(t, 0, hub.TotalSubscribers())

	// Second cleanup is a no-op, not a panic.
	cleanup()
}

func TestHub_FullSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	// Channel buffer is 10; publishing more must drop, not deadlock.
	for i := 0; i < 25; i++ {
		hub.Publish("emp-1", Event{EmployeeID: "emp-1", Event: "attendance.updated", Data: i})
	}

	assert.Len(t, ch, 10)
}
