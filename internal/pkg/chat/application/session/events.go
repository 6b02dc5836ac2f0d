package session

import (
	"encoding/json"
	"fmt"
)

// Client -> server events.
const (
	EventJoinProject       = "join-project"
	EventLeaveProject      = "leave-project"
	EventSendMessage       = "send-message"
	EventTyping            = "typing"
	EventStopTyping        = "stop-typing"
	EventJoinDM            = "join-dm"
	EventSendDirectMessage = "send-direct-message"
	EventDMTyping          = "dm-typing"
	EventDMStopTyping      = "dm-stop-typing"
)

// Server -> client events.
const (
	EventExistingMessages = "existing-messages"
	EventNewMessage       = "new-message"
	EventUserTyping       = "user-typing"
	EventUserStopTyping   = "user-stop-typing"
	EventNewDirectMessage = "new-direct-message"
	EventDMUserTyping     = "dm-user-typing"
	EventDMUserStopTyping = "dm-user-stop-typing"
	EventError            = "error"
)

// Frame is the raw inbound wire frame: an event tag plus an event-specific
// payload, decoded into its typed variant at the boundary before any dispatch
// into the Core.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SendMessagePayload is the payload of a send-message frame.
type SendMessagePayload struct {
	ProjectID string `json:"projectId"`
	Content   string `json:"content"`
	UserID    string `json:"userId"`
}

// TypingPayload is the payload of a typing frame.
type TypingPayload struct {
	ProjectID string `json:"projectId"`
	UserName  string `json:"userName"`
}

// StopTypingPayload is the payload of a stop-typing frame.
type StopTypingPayload struct {
	ProjectID string `json:"projectId"`
}

// SendDirectMessagePayload is the payload of a send-direct-message frame.
type SendDirectMessagePayload struct {
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

// DMTypingPayload is the payload of a dm-typing frame.
type DMTypingPayload struct {
	RecipientID string `json:"recipientId"`
	SenderName  string `json:"senderName"`
}

// DMStopTypingPayload is the payload of a dm-stop-typing frame.
type DMStopTypingPayload struct {
	RecipientID string `json:"recipientId"`
}

// ErrorPayload is the shape of the error event reported to an originator.
type ErrorPayload struct {
	Message string `json:"message"`
}

// TypingBroadcast is the payload of user-typing.
type TypingBroadcast struct {
	UserName string `json:"userName"`
}

// DMTypingBroadcast is the payload of dm-user-typing.
type DMTypingBroadcast struct {
	SenderName string `json:"senderName"`
}

// DecodeString decodes a scalar string payload (join-project, leave-project,
// join-dm frames carry a bare id).
func DecodeString(data json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("%w: expected string payload", ErrValidation)
	}
	if s == "" {
		return "", fmt.Errorf("%w: id is required", ErrValidation)
	}
	return s, nil
}

// DecodePayload decodes an object payload into its typed variant.
func DecodePayload(data json.RawMessage, into any) error {
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("%w: malformed payload", ErrValidation)
	}
	return nil
}
