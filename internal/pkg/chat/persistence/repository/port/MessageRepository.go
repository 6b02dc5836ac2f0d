package repository

import (
	"context"

	chat "github.com/Raees-J/DockIt/internal/pkg/chat/application/domain"
)

// ProjectMessageRepository defines persistence for project chat messages.
// List results are returned oldest first with the sender already resolved,
// matching what the backfill and REST reads deliver.
type ProjectMessageRepository interface {
	Save(ctx context.Context, m chat.ProjectMessage) (string, error)
	ListByProject(ctx context.Context, projectID string) ([]chat.PopulatedProjectMessage, error)
}

// DirectMessageRepository defines persistence for 1:1 messages.
type DirectMessageRepository interface {
	Save(ctx context.Context, m chat.DirectMessage) (string, error)

	// ListConversation returns all messages between the two users, oldest
	// first, with both parties resolved.
	ListConversation(ctx context.Context, userID, otherID string) ([]chat.PopulatedDirectMessage, error)

	// MarkRead flips unread messages from sender to recipient to read.
	// The read flag never transitions back.
	MarkRead(ctx context.Context, senderID, recipientID string) error

	// ListConversations summarizes every peer the user has exchanged
	// messages with, most recent first.
	ListConversations(ctx context.Context, userID string) ([]chat.ConversationSummary, error)
}
