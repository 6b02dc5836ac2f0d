package realtime

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
)

const (
	projectRoomPrefix = "project:"
	userRoomPrefix    = "user:"
)

// ErrUnknownConn is returned when a direct send targets a connection that is
// no longer tracked.
var ErrUnknownConn = errors.New("realtime: unknown connection")

// envelope is the wire frame for every server->client event.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Router translates domain-level intents into Registry room keys and resolves
// broadcast targets. It is the only place room keys are constructed.
type Router struct {
	reg *Registry
	log zerolog.Logger
}

// NewRouter constructs a Router over the given registry.
func NewRouter(reg *Registry, log zerolog.Logger) *Router {
	return &Router{reg: reg, log: log.With().Str("component", "realtime").Logger()}
}

// ProjectRoomKey derives the room key for a project chat channel. The same
// project id always yields the same key so independent connections converge.
func (r *Router) ProjectRoomKey(projectID string) string {
	return projectRoomPrefix + projectID
}

// UserRoomKey derives the room key for a user's personal channel.
func (r *Router) UserRoomKey(userID string) string {
	return userRoomPrefix + userID
}

// JoinProject joins the connection to the project room. It reports whether the
// membership is new, so the caller can gate backfill on first join.
func (r *Router) JoinProject(connID, projectID string) bool {
	joined := r.reg.Join(connID, r.ProjectRoomKey(projectID))
	if joined {
		r.log.Debug().Str("conn", connID).Str("project", projectID).Msg("joined project room")
	}
	return joined
}

// LeaveProject removes the connection from the project room.
func (r *Router) LeaveProject(connID, projectID string) {
	r.reg.Leave(connID, r.ProjectRoomKey(projectID))
	r.log.Debug().Str("conn", connID).Str("project", projectID).Msg("left project room")
}

// JoinUserChannel joins the connection to the user's personal room and binds
// the user identity to the connection. Called once per connection after
// authentication, not per conversation.
func (r *Router) JoinUserChannel(connID, userID string) bool {
	r.reg.BindUser(connID, userID)
	return r.reg.Join(connID, r.UserRoomKey(userID))
}

// Broadcast delivers payload tagged with event to every member of the room,
// optionally excluding one connection (used for typing indicators; message
// delivery always includes the sender's own connection). Returns the number of
// connections the frame was queued for.
func (r *Router) Broadcast(roomKey, event string, payload any, excludeConnID string) int {
	frame, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		r.log.Error().Err(err).Str("event", event).Msg("encode broadcast frame")
		return 0
	}

	delivered := 0
	for _, conn := range r.reg.MembersOf(roomKey) {
		if excludeConnID != "" && conn.ID() == excludeConnID {
			continue
		}
		if err := conn.Send(frame); err == nil {
			delivered++
		}
	}
	return delivered
}

// SendTo delivers an event to a single connection. Used for backfill and for
// error events, which are never broadcast.
func (r *Router) SendTo(connID, event string, payload any) error {
	conn, ok := r.reg.Get(connID)
	if !ok {
		return ErrUnknownConn
	}
	frame, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return err
	}
	return conn.Send(frame)
}
