package realtime

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*Router, *Registry) {
	t.Helper()
	reg := NewRegistry()
	return NewRouter(reg, zerolog.Nop()), reg
}

func decodeFrame(t *testing.T, frame []byte) (string, json.RawMessage) {
	t.Helper()
	var env struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &env))
	return env.Event, env.Data
}

func TestRoomKeyDerivation(t *testing.T) {
	router, _ := newTestRouter(t)
	assert.Equal(t, "project:p1", router.ProjectRoomKey("p1"))
	assert.Equal(t, "user:u1", router.UserRoomKey("u1"))
	// same id always yields the same key
	assert.Equal(t, router.ProjectRoomKey("p1"), router.ProjectRoomKey("p1"))
}

func TestBroadcastReachesAllMembers(t *testing.T) {
	router, reg := newTestRouter(t)
	a := newFakeConn("a")
	b := newFakeConn("b")
	outsider := newFakeConn("x")
	reg.Register(a)
	reg.Register(b)
	reg.Register(outsider)
	require.True(t, router.JoinProject("a", "p1"))
	require.True(t, router.JoinProject("b", "p1"))
	require.True(t, router.JoinProject("x", "p2"))

	n := router.Broadcast(router.ProjectRoomKey("p1"), "new-message", map[string]string{"content": "hi"}, "")
	assert.Equal(t, 2, n)

	for _, conn := range []*fakeConn{a, b} {
		frames := conn.sent()
		require.Len(t, frames, 1)
		event, data := decodeFrame(t, frames[0])
		assert.Equal(t, "new-message", event)
		assert.JSONEq(t, `{"content":"hi"}`, string(data))
	}
	assert.Empty(t, outsider.sent(), "broadcast must stay scoped to the room")
}

func TestBroadcastExcludesOriginator(t *testing.T) {
	router, reg := newTestRouter(t)
	typist := newFakeConn("typist")
	other := newFakeConn("other")
	reg.Register(typist)
	reg.Register(other)
	require.True(t, router.JoinProject("typist", "p1"))
	require.True(t, router.JoinProject("other", "p1"))

	n := router.Broadcast(router.ProjectRoomKey("p1"), "user-typing", map[string]string{"userName": "Ann"}, "typist")
	assert.Equal(t, 1, n)
	assert.Empty(t, typist.sent())
	require.Len(t, other.sent(), 1)
}

func TestBroadcastUnknownRoom(t *testing.T) {
	router, _ := newTestRouter(t)
	assert.Zero(t, router.Broadcast("project:empty", "new-message", nil, ""))
}

func TestBroadcastCountsOnlyDelivered(t *testing.T) {
	router, reg := newTestRouter(t)
	ok := newFakeConn("ok")
	dead := newFakeConn("dead")
	dead.fail = true
	reg.Register(ok)
	reg.Register(dead)
	require.True(t, router.JoinProject("ok", "p1"))
	require.True(t, router.JoinProject("dead", "p1"))

	assert.Equal(t, 1, router.Broadcast(router.ProjectRoomKey("p1"), "new-message", nil, ""))
}

func TestSendTo(t *testing.T) {
	router, reg := newTestRouter(t)
	conn := newFakeConn("c1")
	reg.Register(conn)

	require.NoError(t, router.SendTo("c1", "existing-messages", []string{}))
	frames := conn.sent()
	require.Len(t, frames, 1)
	event, data := decodeFrame(t, frames[0])
	assert.Equal(t, "existing-messages", event)
	assert.JSONEq(t, `[]`, string(data))
}

func TestSendToUnknownConn(t *testing.T) {
	router, _ := newTestRouter(t)
	err := router.SendTo("ghost", "error", map[string]string{"message": "boom"})
	assert.ErrorIs(t, err, ErrUnknownConn)
}

func TestJoinUserChannelBindsUser(t *testing.T) {
	router, reg := newTestRouter(t)
	conn := newFakeConn("c1")
	reg.Register(conn)

	assert.True(t, router.JoinUserChannel("c1", "u1"))
	assert.Equal(t, "u1", reg.UserOf("c1"))
	assert.False(t, router.JoinUserChannel("c1", "u1"))
}

func TestLeaveProjectStopsDelivery(t *testing.T) {
	router, reg := newTestRouter(t)
	conn := newFakeConn("c1")
	reg.Register(conn)
	require.True(t, router.JoinProject("c1", "p1"))

	router.LeaveProject("c1", "p1")
	assert.Zero(t, router.Broadcast(router.ProjectRoomKey("p1"), "new-message", nil, ""))
	assert.Empty(t, conn.sent())
}
