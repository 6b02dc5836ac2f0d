package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	qport "github.com/Raees-J/DockIt/internal/infrastructure/queue/port"
	repoAdapter "github.com/Raees-J/DockIt/internal/repository/adapter"
	repoPort "github.com/Raees-J/DockIt/internal/repository/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotifyMessageTaskType is the queue task name for producing message
// notifications. The notification scheduler that delivers them runs outside
// this service; this worker only records what needs delivering.
const NotifyMessageTaskType = "notifications:message"

// NotificationQueue is the logical queue the chat core enqueues into.
const NotificationQueue = "notifications"

// Notification kinds.
const (
	NotifyKindProject = "project-message"
	NotifyKindDirect  = "direct-message"
)

// NotifyMessagePayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type NotifyMessagePayload struct {
	Kind        string `json:"kind"`
	ProjectID   string `json:"projectId,omitempty"`
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId,omitempty"`
	Preview     string `json:"preview"`
}

// RegisterNotifyMessageTask binds the notification handler to the provided
// server. Project-message notifications fan out to every project member except
// the sender; direct-message notifications target the recipient.
func RegisterNotifyMessageTask(srv qport.Server, pool *pgxpool.Pool) {
	srv.Register(NotifyMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyMessagePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		notifications := repoAdapter.NewPgNotificationRepository(pool)
		projects := repoAdapter.NewPgProjectRepository(pool)

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		recipients, err := resolveRecipients(ctx, projects, p)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, recipientID := range recipients {
			n := repoPort.Notification{
				RecipientID: recipientID,
				SenderID:    p.SenderID,
				Kind:        p.Kind,
				Body:        p.Preview,
				Read:        false,
				CreatedAt:   now,
			}
			if err := notifications.Insert(ctx, n); err != nil {
				// signal retry per the adapter's policy
				return err
			}
		}
		return nil
	})
}

func resolveRecipients(ctx context.Context, projects repoPort.ProjectRepository, p NotifyMessagePayload) ([]string, error) {
	switch p.Kind {
	case NotifyKindDirect:
		if p.RecipientID == "" {
			return nil, fmt.Errorf("notify task: recipientId is required for %s", p.Kind)
		}
		return []string{p.RecipientID}, nil
	case NotifyKindProject:
		if p.ProjectID == "" {
			return nil, fmt.Errorf("notify task: projectId is required for %s", p.Kind)
		}
		members, err := projects.MemberIDs(ctx, p.ProjectID)
		if err != nil {
			return nil, err
		}
		recipients := members[:0]
		for _, id := range members {
			if id != p.SenderID {
				recipients = append(recipients, id)
			}
		}
		return recipients, nil
	default:
		return nil, fmt.Errorf("notify task: unknown kind %q", p.Kind)
	}
}
