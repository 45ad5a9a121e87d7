package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func waitForEvent(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return &ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestHub_RegisterAndHasClients(t *testing.T) {
	h := newRunningHub(t)

	assert.False(t, h.HasClients("u1"))

	c := NewClient(h, nil, "u1")
	h.Register(c)

	assert.Eventually(t, func() bool { return h.HasClients("u1") },
		time.Second, 5*time.Millisecond)
	assert.False(t, h.HasClients("u2"))
}

func TestHub_UnregisterRemovesBinding(t *testing.T) {
	h := newRunningHub(t)

	c := NewClient(h, nil, "u1")
	h.Register(c)
	assert.Eventually(t, func() bool { return h.HasClients("u1") },
		time.Second, 5*time.Millisecond)

	h.unregister <- c
	assert.Eventually(t, func() bool { return !h.HasClients("u1") },
		time.Second, 5*time.Millisecond)

	// channel closed on unregister
	_, open := <-c.send
	assert.False(t, open)
}

func TestHub_SendToUser_FansOutToAllConnections(t *testing.T) {
	h := newRunningHub(t)

	// two tabs of the same user, one unrelated user
	tab1 := NewClient(h, nil, "u1")
	tab2 := NewClient(h, nil, "u1")
	other := NewClient(h, nil, "u2")
	h.Register(tab1)
	h.Register(tab2)
	h.Register(other)
	assert.Eventually(t, func() bool { return h.HasClients("u1") && h.HasClients("u2") },
		time.Second, 5*time.Millisecond)

	h.SendToUser("u1", &Event{Type: EventNewMessage, Payload: map[string]string{"id": "m1"}})

	ev1 := waitForEvent(t, tab1)
	ev2 := waitForEvent(t, tab2)
	assert.Equal(t, EventNewMessage, ev1.Type)
	assert.Equal(t, EventNewMessage, ev2.Type)

	select {
	case <-other.send:
		t.Fatal("unrelated user received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SendToUser_OfflineUserIsSilentlySkipped(t *testing.T) {
	h := newRunningHub(t)

	// no bound connections for u9; must not block or panic
	h.SendToUser("u9", &Event{Type: EventConversationUpdate})

	// let the loop drain the queued event before binding
	time.Sleep(50 * time.Millisecond)

	c := NewClient(h, nil, "u9")
	h.Register(c)
	assert.Eventually(t, func() bool { return h.HasClients("u9") },
		time.Second, 5*time.Millisecond)

	select {
	case <-c.send:
		t.Fatal("event sent before binding must not be replayed")
	case <-time.After(50 * time.Millisecond):
	}
}
