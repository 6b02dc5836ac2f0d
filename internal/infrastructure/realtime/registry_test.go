package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records every frame queued to it.
type fakeConn struct {
	id string

	mu     sync.Mutex
	frames [][]byte
	fail   bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return ErrConnClosed
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeConn) Close(code int, reason string) {}

func (f *fakeConn) sent() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.frames))
	copy(out, f.frames)
	return out
}

func TestRegistryJoinReportsNewMembershipOnce(t *testing.T) {
	reg := NewRegistry()
	conn := newFakeConn("c1")
	reg.Register(conn)

	assert.True(t, reg.Join("c1", "project:p1"))
	assert.False(t, reg.Join("c1", "project:p1"), "re-join must be a no-op")
	assert.Len(t, reg.MembersOf("project:p1"), 1)
}

func TestRegistryJoinUnknownConn(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.Join("ghost", "project:p1"))
	assert.Empty(t, reg.MembersOf("project:p1"))
}

func TestRegistryLeave(t *testing.T) {
	reg := NewRegistry()
	a := newFakeConn("a")
	b := newFakeConn("b")
	reg.Register(a)
	reg.Register(b)
	require.True(t, reg.Join("a", "project:p1"))
	require.True(t, reg.Join("b", "project:p1"))

	reg.Leave("a", "project:p1")
	members := reg.MembersOf("project:p1")
	require.Len(t, members, 1)
	assert.Equal(t, "b", members[0].ID())

	// leaving a room never joined is a no-op
	reg.Leave("a", "project:other")
}

func TestRegistryMembersOfUnknownRoom(t *testing.T) {
	reg := NewRegistry()
	assert.Empty(t, reg.MembersOf("project:nope"))
}

func TestRegistryDeregisterRemovesAllMemberships(t *testing.T) {
	reg := NewRegistry()
	conn := newFakeConn("c1")
	reg.Register(conn)
	reg.BindUser("c1", "u1")
	require.True(t, reg.Join("c1", "project:p1"))
	require.True(t, reg.Join("c1", "user:u1"))

	reg.Deregister("c1")

	assert.Empty(t, reg.MembersOf("project:p1"))
	assert.Empty(t, reg.MembersOf("user:u1"))
	assert.Empty(t, reg.UserOf("c1"))
	_, ok := reg.Get("c1")
	assert.False(t, ok)

	// double deregister is safe
	reg.Deregister("c1")
}

func TestRegistryBindUser(t *testing.T) {
	reg := NewRegistry()
	conn := newFakeConn("c1")
	reg.Register(conn)

	reg.BindUser("c1", "u1")
	assert.Equal(t, "u1", reg.UserOf("c1"))

	// binding an unknown connection is a no-op
	reg.BindUser("ghost", "u2")
	assert.Empty(t, reg.UserOf("ghost"))
}
