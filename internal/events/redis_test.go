package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisPublisher_AttachForwardsEvents(t *testing.T) {
	_, client := setupRedis(t)
	ctx := context.Background()

	pub := NewRedisPublisher(client, "hospital:events", zap.NewNop())
	sub := client.Subscribe(ctx, pub.Channel(TopicBilling))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	bus := NewBus(zap.NewNop())
	pub.Attach(bus)
	sent := bus.Publish(TopicBilling, "invoice_paid", 12)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hospital:events:billing", msg.Channel)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, "invoice_paid", got.Action)
	assert.Equal(t, uint(12), got.EntityID)
}

func TestRedisPublisher_ForwardFailsWhenServerDown(t *testing.T) {
	mr, client := setupRedis(t)
	pub := NewRedisPublisher(client, "p", nil)
	mr.Close()

	err := pub.Forward(context.Background(), Event{Topic: TopicAdmissions})
	assert.Error(t, err)

	bus := NewBus(zap.NewNop())
	pub.Attach(bus)
	assert.NotPanics(t, func() { bus.Publish(TopicAdmissions, "patient_admitted", 1) })
}
