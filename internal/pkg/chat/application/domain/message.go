package chat

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentLength bounds message content size in runes.
const MaxContentLength = 2000

// Domain-level errors for message validation
var (
	ErrEmptyContent   = errors.New("chat: message content is required")
	ErrContentTooLong = errors.New("chat: message content exceeds maximum length")
	ErrMissingSender  = errors.New("chat: sender is required")
	ErrMissingProject = errors.New("chat: project is required")
)

// ProjectMessage is an immutable entry in a project's chat log.
type ProjectMessage struct {
	ID        string    `db:"id"`
	ProjectID string    `db:"project_id"`
	SenderID  string    `db:"sender_id"`
	Content   string    `db:"content"`
	Timestamp time.Time `db:"created_at"`
}

// NewProjectMessage validates and normalizes a message before persistence.
// Content is trimmed; whitespace-only content is rejected.
func NewProjectMessage(projectID, senderID, content string) (*ProjectMessage, error) {
	trimmed, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	if senderID == "" {
		return nil, ErrMissingSender
	}
	if projectID == "" {
		return nil, ErrMissingProject
	}
	return &ProjectMessage{
		ProjectID: projectID,
		SenderID:  senderID,
		Content:   trimmed,
		Timestamp: time.Now().UTC(),
	}, nil
}

func normalizeContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(trimmed) > MaxContentLength {
		return "", ErrContentTooLong
	}
	return trimmed, nil
}

// UserRef is the populated sender/recipient shape delivered with messages.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PopulatedProjectMessage is a ProjectMessage with its sender resolved, as
// broadcast to project rooms and returned by the REST boundary.
type PopulatedProjectMessage struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project"`
	Sender    UserRef   `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
