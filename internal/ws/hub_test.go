package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T, sessions int) (*Hub, []string) {
	t.Helper()

	h := NewHub()
	ids := make([]string, sessions)
	for i := range ids {
		ids[i] = h.Register(&clientConn{})
	}
	return h, ids
}

func Test_RegisterUnregister(t *testing.T) {
	t.Run("register assigns unique ids and counts up", func(t *testing.T) {
		h, ids := newTestHub(t, 3)
		assert.Equal(t, 3, h.SessionCount())

		seen := map[string]struct{}{}
		for _, id := range ids {
			require.NotEmpty(t, id)
			seen[id] = struct{}{}
		}
		assert.Len(t, seen, 3, "expected session ids to be unique")
	})

	t.Run("unregister counts down", func(t *testing.T) {
		h, ids := newTestHub(t, 2)
		h.Unregister(ids[0])
		assert.Equal(t, 1, h.SessionCount())
		h.Unregister(ids[1])
		assert.Equal(t, 0, h.SessionCount())
	})

	t.Run("double unregister is a no-op", func(t *testing.T) {
		h, ids := newTestHub(t, 1)
		h.Unregister(ids[0])
		h.Unregister(ids[0])
		h.Unregister("no-such-session")
		assert.Equal(t, 0, h.SessionCount(), "count must never go negative")
	})
}

func Test_PresenceCounterSequence(t *testing.T) {
	// Counter equals #connects - #disconnects floored at zero, and always
	// matches the live registry size.
	h := NewHub()
	var ids []string

	for i := 0; i < 5; i++ {
		ids = append(ids, h.Register(&clientConn{}))
	}
	assert.Equal(t, 5, h.SessionCount())

	for _, id := range ids {
		h.Unregister(id)
	}
	for _, id := range ids {
		h.Unregister(id) // replays of already-seen disconnects
	}
	assert.Equal(t, 0, h.SessionCount())

	h.Register(&clientConn{})
	assert.Equal(t, 1, h.SessionCount())
}

func Test_JoinLeave(t *testing.T) {
	t.Run("join adds membership and creates the room", func(t *testing.T) {
		h, ids := newTestHub(t, 2)
		h.Join(ids[0], "siamois")
		assert.ElementsMatch(t, []string{ids[0]}, h.Members("siamois"))
		assert.Equal(t, 1, h.RoomCount())

		h.Join(ids[1], "siamois")
		assert.ElementsMatch(t, ids, h.Members("siamois"))
		assert.Equal(t, 1, h.RoomCount())
	})

	t.Run("join is idempotent", func(t *testing.T) {
		h, ids := newTestHub(t, 1)
		h.Join(ids[0], "siamois")
		h.Join(ids[0], "siamois")
		assert.Len(t, h.Members("siamois"), 1)
	})

	t.Run("join with unknown session is ignored", func(t *testing.T) {
		h, _ := newTestHub(t, 0)
		h.Join("no-such-session", "siamois")
		assert.Empty(t, h.Members("siamois"))
		assert.Equal(t, 0, h.RoomCount())
	})

	t.Run("leave removes membership and reaps empty rooms", func(t *testing.T) {
		h, ids := newTestHub(t, 2)
		h.Join(ids[0], "siamois")
		h.Join(ids[1], "siamois")

		h.Leave(ids[0], "siamois")
		assert.ElementsMatch(t, []string{ids[1]}, h.Members("siamois"))

		h.Leave(ids[1], "siamois")
		assert.Empty(t, h.Members("siamois"))
		assert.Equal(t, 0, h.RoomCount())
	})

	t.Run("leave when absent is a no-op", func(t *testing.T) {
		h, ids := newTestHub(t, 2)
		h.Join(ids[0], "siamois")

		h.Leave(ids[1], "siamois")
		h.Leave(ids[0], "other")
		h.Leave("no-such-session", "siamois")
		assert.ElementsMatch(t, []string{ids[0]}, h.Members("siamois"))
	})

	t.Run("a session may belong to many rooms", func(t *testing.T) {
		h, ids := newTestHub(t, 1)
		h.Join(ids[0], "a")
		h.Join(ids[0], "b")
		h.Join(ids[0], "c")
		assert.Equal(t, 3, h.RoomCount())
		assert.ElementsMatch(t, []string{ids[0]}, h.Members("b"))
	})
}

func Test_UnregisterRemovesMemberships(t *testing.T) {
	h, ids := newTestHub(t, 2)
	h.Join(ids[0], "a")
	h.Join(ids[0], "b")
	h.Join(ids[1], "a")

	h.Unregister(ids[0])

	assert.ElementsMatch(t, []string{ids[1]}, h.Members("a"))
	assert.Empty(t, h.Members("b"), "sole-member room should be reaped")
	assert.Equal(t, 1, h.RoomCount())
	assert.Equal(t, 1, h.SessionCount())
}

func Test_BroadcastUnknownRoom(t *testing.T) {
	// Fan-out to an absent or empty recipient set is a silent no-op.
	h, _ := newTestHub(t, 0)
	h.BroadcastRoom("ghost", []byte(`{"event":"room_message"}`))
	h.BroadcastAll([]byte(`{"event":"chat message"}`))
}
