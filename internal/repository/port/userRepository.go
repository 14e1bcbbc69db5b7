package repository

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("repository: user not found")

// User is the minimal user projection the chat service needs: identity
// resolution and invitation addressing. Account management (registration,
// password hashing, admin roles) lives in its own service.
type User struct {
	UserID    int64
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// UserRepository defines read access to the user store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}
