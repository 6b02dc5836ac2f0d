package repository

import "context"

// User is the directory projection needed by the messaging layer.
type User struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

// UserRepository resolves user references for message population and
// recipient checks. FindByID returns (nil, nil) when the user does not exist;
// a non-nil error is reserved for transport/storage failures.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
}
