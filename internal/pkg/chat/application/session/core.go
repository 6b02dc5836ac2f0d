package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	qport "github.com/Raees-J/DockIt/internal/infrastructure/queue/port"
	chat "github.com/Raees-J/DockIt/internal/pkg/chat/application/domain"
	"github.com/Raees-J/DockIt/internal/pkg/chat/application/task"
	msgrepo "github.com/Raees-J/DockIt/internal/pkg/chat/persistence/repository/port"
	dirrepo "github.com/Raees-J/DockIt/internal/repository/port"

	"github.com/rs/zerolog"
)

// Broadcaster resolves room keys and fan-out targets. The realtime Router is
// the production implementation; key derivation lives behind this interface so
// no other component constructs room keys ad hoc.
type Broadcaster interface {
	ProjectRoomKey(projectID string) string
	UserRoomKey(userID string) string
	JoinProject(connID, projectID string) bool
	LeaveProject(connID, projectID string)
	JoinUserChannel(connID, userID string) bool
	Broadcast(roomKey, event string, payload any, excludeConnID string) int
	SendTo(connID, event string, payload any) error
}

// TypingTimers is the cancelable-timer abstraction backing typing auto-expiry.
type TypingTimers interface {
	Start(key string, onExpire func())
	Stop(key string) bool
	Flush(match func(key string) bool)
}

// Core owns the chat protocol: join/leave semantics, the two send paths,
// typing episodes, and delivery fan-out. It is explicitly constructed and
// injected into every boundary that needs to trigger broadcasts; there is no
// ambient singleton.
type Core struct {
	rooms    Broadcaster
	typing   TypingTimers
	messages msgrepo.ProjectMessageRepository
	dms      msgrepo.DirectMessageRepository
	users    dirrepo.UserRepository
	projects dirrepo.ProjectRepository
	queue    qport.Client // nil disables notification enqueue
	log      zerolog.Logger
}

// New constructs a Core. queue may be nil when no notification backend is
// configured; sends then skip the enqueue step.
func New(
	rooms Broadcaster,
	typing TypingTimers,
	messages msgrepo.ProjectMessageRepository,
	dms msgrepo.DirectMessageRepository,
	users dirrepo.UserRepository,
	projects dirrepo.ProjectRepository,
	queue qport.Client,
	log zerolog.Logger,
) *Core {
	return &Core{
		rooms:    rooms,
		typing:   typing,
		messages: messages,
		dms:      dms,
		users:    users,
		projects: projects,
		queue:    queue,
		log:      log.With().Str("component", "chat-session").Logger(),
	}
}

// JoinProject joins the connection to the project room and, on first join
// only, backfills existing messages to that connection. Re-joining an
// already-joined room is a no-op and does not duplicate backfill.
func (c *Core) JoinProject(ctx context.Context, connID, projectID string) error {
	if projectID == "" {
		return fmt.Errorf("%w: projectId is required", ErrValidation)
	}
	if !c.rooms.JoinProject(connID, projectID) {
		return nil
	}

	msgs, err := c.messages.ListByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msgs == nil {
		msgs = []chat.PopulatedProjectMessage{}
	}
	if err := c.rooms.SendTo(connID, EventExistingMessages, msgs); err != nil {
		// the connection raced a disconnect; nothing to deliver to
		c.log.Debug().Err(err).Str("conn", connID).Msg("backfill skipped")
	}
	return nil
}

// LeaveProject removes the connection from the project room. No backfill.
func (c *Core) LeaveProject(connID, projectID string) error {
	if projectID == "" {
		return fmt.Errorf("%w: projectId is required", ErrValidation)
	}
	c.rooms.LeaveProject(connID, projectID)
	return nil
}

// JoinUserChannel joins the connection to the user's personal room so direct
// messages can reach it.
func (c *Core) JoinUserChannel(connID, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userId is required", ErrValidation)
	}
	c.rooms.JoinUserChannel(connID, userID)
	return nil
}

// SendProjectMessage validates, authorizes, persists and broadcasts a project
// message. Join state does not gate send eligibility; it only governs who
// receives the broadcast. The sender's own connections receive the message
// through the room broadcast like everyone else's, so ordering is consistent
// across recipients.
func (c *Core) SendProjectMessage(ctx context.Context, projectID, senderID, content string) (*chat.PopulatedProjectMessage, error) {
	msg, err := chat.NewProjectMessage(projectID, senderID, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	exists, err := c.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: project not found", ErrNotFound)
	}

	allowed, err := c.projects.HasAccess(ctx, projectID, senderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: not a member of this project", ErrAuthorization)
	}

	id, err := c.messages.Save(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	sender, err := c.resolveUser(ctx, senderID)
	if err != nil {
		return nil, err
	}

	populated := &chat.PopulatedProjectMessage{
		ID:        id,
		ProjectID: projectID,
		Sender:    *sender,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}

	c.rooms.Broadcast(c.rooms.ProjectRoomKey(projectID), EventNewMessage, populated, "")
	c.enqueueNotification(ctx, task.NotifyMessagePayload{
		Kind:      task.NotifyKindProject,
		ProjectID: projectID,
		SenderID:  senderID,
		Preview:   msg.Content,
	})
	return populated, nil
}

// ListProjectMessages returns the project's chat log, oldest first, for the
// REST read path and for backfill. The requester must be a project member.
func (c *Core) ListProjectMessages(ctx context.Context, projectID, requesterID string) ([]chat.PopulatedProjectMessage, error) {
	exists, err := c.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: project not found", ErrNotFound)
	}
	allowed, err := c.projects.HasAccess(ctx, projectID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: not a member of this project", ErrAuthorization)
	}
	msgs, err := c.messages.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}

// SendDirectMessage validates, persists and broadcasts a 1:1 message to both
// parties' personal rooms. Every connection either party has open receives
// it, the sender's other tabs and devices included.
func (c *Core) SendDirectMessage(ctx context.Context, senderID, recipientID, content string) (*chat.PopulatedDirectMessage, error) {
	dm, err := chat.NewDirectMessage(senderID, recipientID, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	recipient, err := c.users.FindByID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if recipient == nil {
		return nil, fmt.Errorf("%w: recipient not found", ErrNotFound)
	}
	sender, err := c.resolveUser(ctx, senderID)
	if err != nil {
		return nil, err
	}

	id, err := c.dms.Save(ctx, *dm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	populated := &chat.PopulatedDirectMessage{
		ID:        id,
		Sender:    *sender,
		Recipient: chat.UserRef{ID: recipient.ID, Name: recipient.Name, Email: recipient.Email},
		Content:   dm.Content,
		Read:      false,
		Timestamp: dm.Timestamp,
	}

	c.rooms.Broadcast(c.rooms.UserRoomKey(senderID), EventNewDirectMessage, populated, "")
	c.rooms.Broadcast(c.rooms.UserRoomKey(recipientID), EventNewDirectMessage, populated, "")
	c.enqueueNotification(ctx, task.NotifyMessagePayload{
		Kind:        task.NotifyKindDirect,
		SenderID:    senderID,
		RecipientID: recipientID,
		Preview:     dm.Content,
	})
	return populated, nil
}

// GetConversation returns the full exchange between the requester and another
// user, oldest first, and marks the other party's unread messages as read.
// The read flag only ever moves false -> true.
func (c *Core) GetConversation(ctx context.Context, userID, otherID string) ([]chat.PopulatedDirectMessage, error) {
	other, err := c.users.FindByID(ctx, otherID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if other == nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	msgs, err := c.dms.ListConversation(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := c.dms.MarkRead(ctx, otherID, userID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}

// ListConversations summarizes every peer the user has exchanged direct
// messages with, most recent first.
func (c *Core) ListConversations(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
	convs, err := c.dms.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return convs, nil
}

// Typing broadcasts a typing indicator to the project room, excluding the
// typist's own connection, and (re)starts the auto-expiry countdown for the
// episode.
func (c *Core) Typing(connID, projectID, userName string) {
	room := c.rooms.ProjectRoomKey(projectID)
	c.rooms.Broadcast(room, EventUserTyping, TypingBroadcast{UserName: userName}, connID)
	c.typing.Start(typingKey(room, connID), func() {
		c.rooms.Broadcast(room, EventUserStopTyping, nil, connID)
	})
}

// StopTyping cancels the typing episode and emits the stop event, provided
// the episode is still live. The episode produces exactly one stop broadcast:
// either this explicit one or the timer's, never both.
func (c *Core) StopTyping(connID, projectID string) {
	room := c.rooms.ProjectRoomKey(projectID)
	if c.typing.Stop(typingKey(room, connID)) {
		c.rooms.Broadcast(room, EventUserStopTyping, nil, connID)
	}
}

// DMTyping broadcasts a typing indicator to the recipient's personal room.
func (c *Core) DMTyping(connID, recipientID, senderName string) {
	room := c.rooms.UserRoomKey(recipientID)
	c.rooms.Broadcast(room, EventDMUserTyping, DMTypingBroadcast{SenderName: senderName}, connID)
	c.typing.Start(typingKey(room, connID), func() {
		c.rooms.Broadcast(room, EventDMUserStopTyping, nil, connID)
	})
}

// DMStopTyping cancels the direct-message typing episode.
func (c *Core) DMStopTyping(connID, recipientID string) {
	room := c.rooms.UserRoomKey(recipientID)
	if c.typing.Stop(typingKey(room, connID)) {
		c.rooms.Broadcast(room, EventDMUserStopTyping, nil, connID)
	}
}

// Disconnect releases the connection's live typing episodes, emitting the
// pending stop events so no indicator stays stuck on after a vanished client.
// Room membership cleanup is the registry's job at the transport boundary.
func (c *Core) Disconnect(connID string) {
	suffix := typingKeySeparator + connID
	c.typing.Flush(func(key string) bool {
		return strings.HasSuffix(key, suffix)
	})
}

// ReportError delivers an error event to the originating connection only.
// Errors are never broadcast.
func (c *Core) ReportError(connID, message string) error {
	return c.rooms.SendTo(connID, EventError, ErrorPayload{Message: message})
}

// NotifyProject delivers an application event (projectCreated, taskAssigned,
// ...) to the members currently in the project room. Delivery is always
// scoped to the room; there is no broadcast to unrelated connections.
func (c *Core) NotifyProject(projectID, event string, payload any) int {
	return c.rooms.Broadcast(c.rooms.ProjectRoomKey(projectID), event, payload, "")
}

const typingKeySeparator = "|"

func typingKey(roomKey, connID string) string {
	return roomKey + typingKeySeparator + connID
}

func (c *Core) resolveUser(ctx context.Context, userID string) (*chat.UserRef, error) {
	u, err := c.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if u == nil {
		// the message was accepted but its sender row is gone: store inconsistency
		return nil, fmt.Errorf("%w: sender %s missing from directory", ErrPersistence, userID)
	}
	return &chat.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (c *Core) enqueueNotification(ctx context.Context, p task.NotifyMessagePayload) {
	if c.queue == nil {
		return
	}
	b, err := json.Marshal(p)
	if err != nil {
		c.log.Error().Err(err).Msg("encode notification payload")
		return
	}
	opts := qport.EnqueueOption{Queue: task.NotificationQueue, MaxRetry: 10}
	if _, err := c.queue.Enqueue(ctx, qport.Task{Type: task.NotifyMessageTaskType, Payload: b}, opts); err != nil {
		// best effort: a failed enqueue never fails the send
		c.log.Warn().Err(err).Str("kind", p.Kind).Msg("notification enqueue failed")
	}
}
