// Package authz holds the single authorization policy applied to every
// mutating post and comment operation.
package authz

import (
	"github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// Actor is the authenticated identity performing an operation. It is
// attached to the request by the auth middleware and passed explicitly
// into every service call.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

// IsZero reports whether the actor carries no identity.
func (a Actor) IsZero() bool {
	return a.UserID.IsZero()
}

// Policy decides whether an actor may mutate a resource owned by another
// user. Services consult it after the resource has been located, so a
// missing resource always surfaces as not-found before any policy outcome.
type Policy struct{}

// NewPolicy creates the authorization policy.
func NewPolicy() Policy {
	return Policy{}
}

// CanMutate permits a mutation iff the actor is an admin or owns the
// resource.
func (Policy) CanMutate(actor Actor, ownerID uuid.UUID) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	return !actor.UserID.IsZero() && actor.UserID == ownerID
}
