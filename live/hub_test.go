package live

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func TestHub_PublishReachesRoomOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, cancel := startHub(t)
	defer func() {
		cancel()
		<-hub.Done()
	}()

	inRoom := NewClient(hub, nil, LeagueRoom(1))
	otherRoom := NewClient(hub, nil, LeagueRoom(2))
	require.True(t, hub.Register(inRoom))
	require.True(t, hub.Register(otherRoom))
	require.Eventually(t, func() bool {
		return hub.RoomSize(LeagueRoom(1)) == 1 && hub.RoomSize(LeagueRoom(2)) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Publish(LeagueRoom(1), EventMatchReported, map[string]int{"match_id": 7})

	select {
	case raw := <-inRoom.Send:
		var ev struct {
			Type    string         `json:"type"`
			Payload map[string]int `json:"payload"`
			RoomID  string         `json:"room_id"`
		}
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, EventMatchReported, ev.Type)
		assert.Equal(t, 7, ev.Payload["match_id"])
		assert.Equal(t, "league_1", ev.RoomID)
	case <-time.After(time.Second):
		t.Fatal("expected a message")
	}
	assert.Empty(t, otherRoom.Send)
}

func TestHub_UnregisterClosesClient(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, cancel := startHub(t)
	defer func() {
		cancel()
		<-hub.Done()
	}()

	c := NewClient(hub, nil, LeagueRoom(3))
	require.True(t, hub.Register(c))
	require.Eventually(t, func() bool { return hub.RoomSize(LeagueRoom(3)) == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(c)
	require.Eventually(t, func() bool { return hub.RoomSize(LeagueRoom(3)) == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.Send
	assert.False(t, open)
	assert.False(t, c.trySend([]byte("late")))
}

func TestHub_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, cancel := startHub(t)
	c := NewClient(hub, nil, LeagueRoom(4))
	require.True(t, hub.Register(c))

	cancel()
	<-hub.Done()

	_, open := <-c.Send
	assert.False(t, open)
	assert.False(t, hub.Register(NewClient(hub, nil, LeagueRoom(4))))
	hub.Unregister(c)
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, cancel := startHub(t)
	defer func() {
		cancel()
		<-hub.Done()
	}()

	c := NewClient(hub, nil, LeagueRoom(5))
	require.True(t, hub.Register(c))
	require.Eventually(t, func() bool { return hub.RoomSize(LeagueRoom(5)) == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < sendBuffer+10; i++ {
		hub.Publish(LeagueRoom(5), EventStandingsUpdated, i)
	}
	assert.Len(t, c.Send, sendBuffer)
}
