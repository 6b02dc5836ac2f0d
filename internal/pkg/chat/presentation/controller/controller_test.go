package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raees-J/DockIt/internal/infrastructure/realtime"
	"github.com/Raees-J/DockIt/internal/pkg/auth"
	chat "github.com/Raees-J/DockIt/internal/pkg/chat/application/domain"
	"github.com/Raees-J/DockIt/internal/pkg/chat/application/session"
	dirrepo "github.com/Raees-J/DockIt/internal/repository/port"
)

// noopBroadcaster satisfies session.Broadcaster; REST tests only care about
// the persistence path and status mapping.
type noopBroadcaster struct{}

func (noopBroadcaster) ProjectRoomKey(projectID string) string { return "project:" + projectID }
func (noopBroadcaster) UserRoomKey(userID string) string       { return "user:" + userID }
func (noopBroadcaster) JoinProject(connID, projectID string) bool   { return true }
func (noopBroadcaster) LeaveProject(connID, projectID string)       {}
func (noopBroadcaster) JoinUserChannel(connID, userID string) bool  { return true }
func (noopBroadcaster) Broadcast(roomKey, event string, payload any, ex string) int { return 0 }
func (noopBroadcaster) SendTo(connID, event string, payload any) error              { return nil }

type stubMessageRepo struct {
	messages []chat.PopulatedProjectMessage
}

func (s *stubMessageRepo) Save(ctx context.Context, m chat.ProjectMessage) (string, error) {
	return "msg-1", nil
}

func (s *stubMessageRepo) ListByProject(ctx context.Context, projectID string) ([]chat.PopulatedProjectMessage, error) {
	return s.messages, nil
}

type stubDMRepo struct {
	summaries []chat.ConversationSummary
}

func (s *stubDMRepo) Save(ctx context.Context, m chat.DirectMessage) (string, error) {
	return "dm-1", nil
}

func (s *stubDMRepo) ListConversation(ctx context.Context, userID, otherID string) ([]chat.PopulatedDirectMessage, error) {
	return nil, nil
}

func (s *stubDMRepo) MarkRead(ctx context.Context, senderID, recipientID string) error { return nil }

func (s *stubDMRepo) ListConversations(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
	return s.summaries, nil
}

type stubUserRepo struct {
	users map[string]*dirrepo.User
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*dirrepo.User, error) {
	return s.users[id], nil
}

type stubProjectRepo struct {
	existing map[string]bool
	members  map[string][]string
}

func (s *stubProjectRepo) Exists(ctx context.Context, projectID string) (bool, error) {
	return s.existing[projectID], nil
}

func (s *stubProjectRepo) HasAccess(ctx context.Context, projectID, userID string) (bool, error) {
	for _, m := range s.members[projectID] {
		if m == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubProjectRepo) MemberIDs(ctx context.Context, projectID string) ([]string, error) {
	return s.members[projectID], nil
}

func newTestEngine(t *testing.T, userID string) (*gin.Engine, *session.Core) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core := session.New(
		noopBroadcaster{},
		realtime.NewTypingTracker(time.Hour),
		&stubMessageRepo{},
		&stubDMRepo{},
		&stubUserRepo{users: map[string]*dirrepo.User{
			"u1": {ID: "u1", Name: "Ann", Email: "ann@example.com"},
			"u2": {ID: "u2", Name: "Ben", Email: "ben@example.com"},
		}},
		&stubProjectRepo{
			existing: map[string]bool{"p1": true},
			members:  map[string][]string{"p1": {"u1"}},
		},
		nil,
		zerolog.Nop(),
	)

	r := gin.New()
	// stand-in for the auth middleware: tests inject the identity directly
	r.Use(func(c *gin.Context) {
		c.Set(auth.UserContextKey, userID)
	})
	r.GET("/api/messages/:projectId", NewGetMessagesController(core).Handle())
	r.POST("/api/messages/:projectId", NewSendMessageController(core).Handle())
	r.GET("/api/direct-messages/:userId", NewGetConversationController(core).Handle())
	r.POST("/api/direct-messages/:userId", NewSendDirectMessageController(core).Handle())
	r.GET("/api/direct-messages/:userId/:sub", NewListConversationsController(core).Handle())
	return r, core
}

func TestGetMessages(t *testing.T) {
	r, _ := newTestEngine(t, "u1")

	req := httptest.NewRequest(http.MethodGet, "/api/messages/p1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String(), "empty log serializes as an empty array")
}

func TestGetMessagesUnknownProject(t *testing.T) {
	r, _ := newTestEngine(t, "u1")

	req := httptest.NewRequest(http.MethodGet, "/api/messages/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMessagesNonMember(t *testing.T) {
	r, _ := newTestEngine(t, "u2")

	req := httptest.NewRequest(http.MethodGet, "/api/messages/p1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSendMessage(t *testing.T) {
	r, _ := newTestEngine(t, "u1")

	req := httptest.NewRequest(http.MethodPost, "/api/messages/p1", strings.NewReader(`{"content":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"content":"hello"`)
	assert.Contains(t, w.Body.String(), `"id":"msg-1"`)
}

func TestSendMessageMissingBody(t *testing.T) {
	r, _ := newTestEngine(t, "u1")

	req := httptest.NewRequest(http.MethodPost, "/api/messages/p1", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendDirectMessage(t *testing.T) {
	r, _ := newTestEngine(t, "u1")

	req := httptest.NewRequest(http.MethodPost, "/api/direct-messages/u2", strings.NewReader(`{"content":"hey"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"dm-1"`)
}

func TestSendDirectMessageUnknownRecipient(t *testing.T) {
	r, _ := newTestEngine(t, "u1")

	req := httptest.NewRequest(http.MethodPost, "/api/direct-messages/nobody", strings.NewReader(`{"content":"hey"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetConversation(t *testing.T) {
	r, _ := newTestEngine(t, "u1")

	req := httptest.NewRequest(http.MethodGet, "/api/direct-messages/u2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListConversations(t *testing.T) {
	r, _ := newTestEngine(t, "u1")

	req := httptest.NewRequest(http.MethodGet, "/api/direct-messages/conversations/list", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListConversationsRejectsOtherSubpaths(t *testing.T) {
	r, _ := newTestEngine(t, "u1")

	req := httptest.NewRequest(http.MethodGet, "/api/direct-messages/u2/whatever", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
