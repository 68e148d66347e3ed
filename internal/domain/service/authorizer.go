package service

import (
	"github.com/google/uuid"
)

// Action names something an actor wants to do to a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionManage Action = "manage" // Catalog/coupon/order administration.
)

// Actor is the authenticated principal performing a request, as extracted
// from the bearer token.
type Actor struct {
	UserID uuid.UUID
	Roles  []string
}

// Resource identifies what is being acted on. OwnerID is the zero UUID for
// resources without a per-user owner (e.g. the catalog).
type Resource struct {
	Kind    string // "product", "order", "invoice", "review", "coupon", "cart"
	OwnerID uuid.UUID
}

// Authorizer centralizes capability checks. Use cases ask it one question,
// may (actor, action, resource)?, instead of scattering role flags through
// the codebase.
type Authorizer interface {
	// Authorize returns nil when the actor may perform the action on the
	// resource, or a domain error describing the refusal.
	Authorize(actor Actor, action Action, resource Resource) error
}
