package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Raees-J/DockIt/internal/infrastructure/realtime"
	"github.com/Raees-J/DockIt/internal/pkg/auth"
	"github.com/Raees-J/DockIt/internal/pkg/chat/application/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ChatSocketController handles the websocket endpoint for realtime chat
// traffic. It owns the transport boundary: upgrading, decoding inbound frames
// into their typed variants, dispatching into the injected Core, and reporting
// every rejected operation back to its originator as a single error event.
type ChatSocketController struct {
	registry        *realtime.Registry
	core            *session.Core
	verifier        *auth.Verifier
	log             zerolog.Logger
	inflightTimeout time.Duration
}

func NewChatSocketController(registry *realtime.Registry, core *session.Core, verifier *auth.Verifier, log zerolog.Logger) *ChatSocketController {
	return &ChatSocketController{
		registry:        registry,
		core:            core,
		verifier:        verifier,
		log:             log.With().Str("component", "chat-socket").Logger(),
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients are served from a separate origin.
		return true
	},
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until
// the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID string
		if token := c.Query("token"); token != "" {
			claims, err := ctl.verifier.Verify(token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
				return
			}
			userID = claims.UserID
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.log.Debug().Err(err).Msg("websocket upgrade failed")
			return
		}

		conn := realtime.NewWSConn(ws)
		ctl.registry.Register(conn)
		conn.Start()
		if userID != "" {
			ctl.registry.BindUser(conn.ID(), userID)
		}
		ctl.log.Info().Str("conn", conn.ID()).Str("user", userID).Msg("client connected")

		defer func() {
			// flush live typing episodes first so their stop events still
			// reach rooms this connection was typing into
			ctl.core.Disconnect(conn.ID())
			ctl.registry.Deregister(conn.ID())
			conn.Close(websocket.CloseNormalClosure, "session closed")
			ctl.log.Info().Str("conn", conn.ID()).Msg("client disconnected")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				return
			}
			_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))

			var frame session.Frame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn.ID(), "invalid payload")
				continue
			}
			ctl.dispatch(c.Request.Context(), conn.ID(), frame)
		}
	}
}

// dispatch decodes the frame's payload into its typed variant and executes
// the operation. Errors are terminal for the single operation that raised
// them; the read loop continues regardless.
func (ctl *ChatSocketController) dispatch(parent context.Context, connID string, frame session.Frame) {
	ctx, cancel := context.WithTimeout(parent, ctl.inflightTimeout)
	defer cancel()

	switch frame.Event {
	case session.EventJoinProject:
		projectID, err := session.DecodeString(frame.Data)
		if err != nil {
			ctl.replyError(connID, "projectId is required")
			return
		}
		if err := ctl.core.JoinProject(ctx, connID, projectID); err != nil {
			ctl.replyOperationError(connID, err, "Failed to join project room")
		}

	case session.EventLeaveProject:
		projectID, err := session.DecodeString(frame.Data)
		if err != nil {
			ctl.replyError(connID, "projectId is required")
			return
		}
		_ = ctl.core.LeaveProject(connID, projectID)

	case session.EventSendMessage:
		var p session.SendMessagePayload
		if err := session.DecodePayload(frame.Data, &p); err != nil {
			ctl.replyError(connID, "invalid payload")
			return
		}
		if _, err := ctl.core.SendProjectMessage(ctx, p.ProjectID, p.UserID, p.Content); err != nil {
			ctl.replyOperationError(connID, err, "Failed to send message")
		}

	case session.EventTyping:
		var p session.TypingPayload
		if err := session.DecodePayload(frame.Data, &p); err != nil {
			ctl.replyError(connID, "invalid payload")
			return
		}
		ctl.core.Typing(connID, p.ProjectID, p.UserName)

	case session.EventStopTyping:
		var p session.StopTypingPayload
		if err := session.DecodePayload(frame.Data, &p); err != nil {
			ctl.replyError(connID, "invalid payload")
			return
		}
		ctl.core.StopTyping(connID, p.ProjectID)

	case session.EventJoinDM:
		userID, err := session.DecodeString(frame.Data)
		if err != nil {
			ctl.replyError(connID, "userId is required")
			return
		}
		_ = ctl.core.JoinUserChannel(connID, userID)

	case session.EventSendDirectMessage:
		var p session.SendDirectMessagePayload
		if err := session.DecodePayload(frame.Data, &p); err != nil {
			ctl.replyError(connID, "invalid payload")
			return
		}
		if _, err := ctl.core.SendDirectMessage(ctx, p.SenderID, p.RecipientID, p.Content); err != nil {
			ctl.replyOperationError(connID, err, "Failed to send direct message")
		}

	case session.EventDMTyping:
		var p session.DMTypingPayload
		if err := session.DecodePayload(frame.Data, &p); err != nil {
			ctl.replyError(connID, "invalid payload")
			return
		}
		ctl.core.DMTyping(connID, p.RecipientID, p.SenderName)

	case session.EventDMStopTyping:
		var p session.DMStopTypingPayload
		if err := session.DecodePayload(frame.Data, &p); err != nil {
			ctl.replyError(connID, "invalid payload")
			return
		}
		ctl.core.DMStopTyping(connID, p.RecipientID)

	default:
		ctl.replyError(connID, "unknown event")
	}
}

// replyOperationError maps the session error taxonomy onto the client-facing
// message for this operation. Validation, authorization and not-found carry
// their causes; persistence failures report the generic fallback.
func (ctl *ChatSocketController) replyOperationError(connID string, err error, fallback string) {
	switch {
	case errors.Is(err, session.ErrValidation), errors.Is(err, session.ErrNotFound):
		ctl.replyError(connID, causeMessage(err))
	case errors.Is(err, session.ErrAuthorization):
		ctl.replyError(connID, "Not authorized to send messages to this project")
	default:
		ctl.log.Error().Err(err).Str("conn", connID).Msg("chat operation failed")
		ctl.replyError(connID, fallback)
	}
}

// causeMessage strips the sentinel wrapping so the client sees the specific
// cause ("message content is required", "recipient not found").
func causeMessage(err error) string {
	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx >= 0 && idx+2 < len(msg) {
		return msg[idx+2:]
	}
	return msg
}

func (ctl *ChatSocketController) replyError(connID, message string) {
	if err := ctl.core.ReportError(connID, message); err != nil {
		ctl.log.Debug().Err(err).Str("conn", connID).Msg("error event undeliverable")
	}
}
