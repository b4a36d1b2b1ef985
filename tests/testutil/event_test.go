package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEventHandler_RecordsEvents(t *testing.T) {
	handler := NewMockEventHandler("order.sent")
	event := NewTestEvent("order.sent", TestTenantID())

	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Equal(t, 1, handler.HandledCount())
	assert.Equal(t, event, handler.Handled()[0])
	assert.Equal(t, []string{"order.sent"}, handler.EventTypes())
}

func TestMockEventHandler_SetError(t *testing.T) {
	handler := NewMockEventHandler()
	handler.SetError(assert.AnError)

	err := handler.Handle(context.Background(), NewTestEvent("stock.moved", uuid.New()))
	assert.Equal(t, assert.AnError, err)
}

func TestMockEventHandler_Reset(t *testing.T) {
	handler := NewMockEventHandler()
	_ = handler.Handle(context.Background(), NewTestEvent("stock.moved", uuid.New()))
	require.Equal(t, 1, handler.HandledCount())

	handler.Reset()

	assert.Equal(t, 0, handler.HandledCount())
}

func TestNewTestEvent(t *testing.T) {
	tenantID := uuid.New()
	event := NewTestEvent("order.finalized", tenantID)

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "order.finalized", event.EventType())
	assert.Equal(t, tenantID, event.TenantID())
	assert.WithinDuration(t, time.Now(), event.OccurredAt(), time.Second)
}

func TestWaitForEventCount(t *testing.T) {
	handler := NewMockEventHandler()

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = handler.Handle(context.Background(), NewTestEvent("order.sent", uuid.New()))
	}()

	assert.True(t, WaitForEventCount(t, handler, 1, time.Second))
	assert.False(t, WaitForEventCount(t, handler, 2, 50*time.Millisecond))
}
