package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishSince(t *testing.T) {
	h := NewHub()

	first := h.Publish(Event{Type: EventClientWaiting, EmployeeID: "e1", AppointmentID: "a1"})
	h.Publish(Event{Type: EventClientWaiting, EmployeeID: "e2", AppointmentID: "a2"})
	second := h.Publish(Event{Type: EventAppointmentChanged, EmployeeID: "e1", AppointmentID: "a3"})

	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)
	assert.False(t, first.At.IsZero())

	events := h.Since("e1", 0)
	require.Len(t, events, 2)
	assert.Equal(t, "a1", events[0].AppointmentID)

	events = h.Since("e1", 1)
	require.Len(t, events, 1)
	assert.Equal(t, "a3", events[0].AppointmentID)

	assert.Empty(t, h.Since("e3", 0))
}

func TestHub_WaitWakesOnPublish(t *testing.T) {
	h := NewHub()

	done := make(chan []Event, 1)
	go func() {
		events, err := h.Wait(context.Background(), "e1", 0, 5*time.Second)
		assert.NoError(t, err)
		done <- events
	}()

	time.Sleep(20 * time.Millisecond)
	h.Publish(Event{Type: EventClientWaiting, EmployeeID: "e2"})
	h.Publish(Event{Type: EventClientWaiting, EmployeeID: "e1", CustomerName: "Laura"})

	select {
	case events := <-done:
		require.Len(t, events, 1)
		assert.Equal(t, "Laura", events[0].CustomerName)
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return")
	}
}

func TestHub_WaitTimeoutAndCancel(t *testing.T) {
	h := NewHub()

	events, err := h.Wait(context.Background(), "e1", 0, 10*time.Millisecond)
	assert.NoError(t, err)
	assert.Empty(t, events)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Wait(ctx, "e1", 0, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHub_Backlog(t *testing.T) {
	h := NewHub()
	for i := 0; i < maxBacklog+10; i++ {
		h.Publish(Event{EmployeeID: "e1"})
	}
	events := h.Since("e1", 0)
	assert.Len(t, events, maxBacklog)
	assert.Equal(t, uint64(11), events[0].Seq)
}

func TestHub_UnknownEmployeeLeavesNoMailbox(t *testing.T) {
	h := NewHub()

	assert.Empty(t, h.Since("ghost", 0))
	for i := 0; i < 10; i++ {
		events, err := h.Wait(context.Background(), fmt.Sprintf("ghost-%d", i), 0, time.Millisecond)
		require.NoError(t, err)
		assert.Empty(t, events)
	}
	assert.Empty(t, h.boxes)

	// ящик с событиями остается после ожидания
	h.Publish(Event{Type: EventClientWaiting, EmployeeID: "e1"})
	events, err := h.Wait(context.Background(), "e1", 0, time.Millisecond)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Len(t, h.boxes, 1)
}
