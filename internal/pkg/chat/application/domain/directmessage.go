package chat

import (
	"errors"
	"time"
)

var (
	ErrMissingRecipient = errors.New("chat: recipient is required")
	ErrSelfMessage      = errors.New("chat: sender and recipient must differ")
)

// DirectMessage is an immutable entry in a 1:1 conversation. The read flag
// transitions false->true only, when the recipient opens the conversation.
type DirectMessage struct {
	ID          string    `db:"id"`
	SenderID    string    `db:"sender_id"`
	RecipientID string    `db:"recipient_id"`
	Content     string    `db:"content"`
	Read        bool      `db:"read"`
	Timestamp   time.Time `db:"created_at"`
}

// NewDirectMessage validates and normalizes a direct message before persistence.
func NewDirectMessage(senderID, recipientID, content string) (*DirectMessage, error) {
	trimmed, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	if senderID == "" {
		return nil, ErrMissingSender
	}
	if recipientID == "" {
		return nil, ErrMissingRecipient
	}
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}
	return &DirectMessage{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     trimmed,
		Read:        false,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// PopulatedDirectMessage is a DirectMessage with both parties resolved.
type PopulatedDirectMessage struct {
	ID        string    `json:"id"`
	Sender    UserRef   `json:"sender"`
	Recipient UserRef   `json:"recipient"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationSummary is one row of the conversations list: the peer, the most
// recent message exchanged, and how many messages are still unread.
type ConversationSummary struct {
	User            UserRef   `json:"user"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadCount     int       `json:"unreadCount"`
}
