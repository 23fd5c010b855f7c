package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"robotics-event-api/packages/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestHubRoutesByRoom(t *testing.T) {
	h, _ := startHub(t)

	control := NewClient(h, nil, RoomMatchControl)
	watcher := NewClient(h, nil, MatchRoom(7))
	other := NewClient(h, nil, MatchRoom(8))
	for _, c := range []*Client{control, watcher, other} {
		require.True(t, h.Join(c))
	}
	require.Eventually(t, func() bool {
		return h.RoomSize(RoomMatchControl) == 1 && h.RoomSize(MatchRoom(7)) == 1 && h.RoomSize(MatchRoom(8)) == 1
	}, time.Second, 10*time.Millisecond)

	match := &models.Match{ID: 7, Number: 3, Status: models.MatchStatusOngoing}
	h.MatchStatusChanged(match, "started")

	for _, c := range []*Client{control, watcher} {
		msg := receive(t, c)
		assert.Equal(t, EventMatchStatus, msg.Type)
		assert.Equal(t, c.Room, msg.Room)
		payload, ok := msg.Payload.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "started", payload["action"])
	}

	h.ScoreUpdated(match)
	msg := receive(t, watcher)
	assert.Equal(t, EventScoreUpdated, msg.Type)

	assert.Empty(t, control.Send)
	assert.Empty(t, other.Send)
}

func TestHubLeaveClosesClient(t *testing.T) {
	h, _ := startHub(t)

	c := NewClient(h, nil, MatchRoom(1))
	require.True(t, h.Join(c))
	require.Eventually(t, func() bool { return h.RoomSize(MatchRoom(1)) == 1 }, time.Second, 10*time.Millisecond)

	h.Leave(c)
	require.Eventually(t, func() bool { return h.RoomSize(MatchRoom(1)) == 0 }, time.Second, 10*time.Millisecond)

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.False(t, c.trySend([]byte("late")))
}

func TestHubStopsWithContext(t *testing.T) {
	h, cancel := startHub(t)

	c := NewClient(h, nil, RoomMatchControl)
	require.True(t, h.Join(c))
	require.Eventually(t, func() bool { return h.RoomSize(RoomMatchControl) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return h.RoomSize(RoomMatchControl) == 0 }, time.Second, 10*time.Millisecond)

	assert.False(t, h.Join(NewClient(h, nil, RoomMatchControl)))
	h.Leave(c)
}

func TestSlowClientDropsMessages(t *testing.T) {
	h, _ := startHub(t)

	c := NewClient(h, nil, MatchRoom(2))
	require.True(t, h.Join(c))
	require.Eventually(t, func() bool { return h.RoomSize(MatchRoom(2)) == 1 }, time.Second, 10*time.Millisecond)

	match := &models.Match{ID: 2}
	for i := 0; i < sendBuffer+10; i++ {
		h.ScoreUpdated(match)
	}
	assert.Len(t, c.Send, sendBuffer)
}
