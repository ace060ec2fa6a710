package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBus_RecordsInOrder(t *testing.T) {
	bus := &MemoryBus{}
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, RecordSubject("patient", ActionCreated), RecordEvent{Entity: "patient", RecordID: "p1"}))
	require.NoError(t, bus.Publish(ctx, StaffRegistered, StaffRegisteredEvent{AccountID: "a1"}))

	msgs := bus.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "patient.created", msgs[0].Subject)
	assert.Equal(t, StaffRegistered, msgs[1].Subject)

	var ev RecordEvent
	require.NoError(t, json.Unmarshal(msgs[0].Data, &ev))
	assert.Equal(t, "p1", ev.RecordID)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), "x", map[string]string{"a": "b"}))
	assert.NoError(t, p.Close())
}

func TestNATSEventBus_Integration(t *testing.T) {
	url := os.Getenv("TEST_NATS_URL")
	if url == "" {
		t.Skip("TEST_NATS_URL not set")
	}
	bus, err := NewNATSEventBus(url)
	require.NoError(t, err)
	t.Cleanup(func() { bus.Close() })

	sub, err := nats.Connect(url)
	require.NoError(t, err)
	t.Cleanup(sub.Close)

	got := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe("doctor.*", got)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())
	require.NoError(t, bus.Publish(context.Background(), RecordSubject("doctor", ActionDeleted), RecordEvent{RecordID: "d1"}))

	select {
	case msg := <-got:
		assert.Equal(t, "doctor.deleted", msg.Subject)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}
