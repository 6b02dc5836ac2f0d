package repository

import "context"

// ProjectRepository exposes the authorization checks the messaging core
// delegates to: project existence and creator-or-member access.
type ProjectRepository interface {
	Exists(ctx context.Context, projectID string) (bool, error)
	HasAccess(ctx context.Context, projectID, userID string) (bool, error)

	// MemberIDs returns the creator plus all collaborators of the project.
	// Used by the notification worker to resolve recipients.
	MemberIDs(ctx context.Context, projectID string) ([]string, error)
}
