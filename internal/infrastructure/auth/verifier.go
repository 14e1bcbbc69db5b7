package auth

import "context"

// Identity is the resolved caller of a connection or request. A zero UserID
// means the caller is anonymous: the connection itself is allowed, but every
// membership-gated action will be denied downstream.
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

// IsAnonymous reports whether the identity carries no authenticated user.
func (i Identity) IsAnonymous() bool {
	return i.UserID == 0
}

// Verifier validates a bearer credential and yields the caller identity.
type Verifier interface {
	Resolve(ctx context.Context, credential string) (Identity, error)
}
