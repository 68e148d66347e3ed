// Package authz implements the capability-based authorization policy.
package authz

import (
	"slices"

	"blitzshop/internal/domain/entity"
	domainerrors "blitzshop/internal/domain/errors"
	"blitzshop/internal/domain/service"

	"github.com/google/uuid"
)

// policy is the single place that answers "may this actor do that?".
// Keeping the rules here, rather than as is_admin checks scattered across
// handlers, makes them testable in isolation.
type policy struct{}

// NewPolicy is the constructor for the default authorization policy.
func NewPolicy() service.Authorizer {
	return &policy{}
}

// Authorize returns nil when the actor may perform the action on the resource.
func (p *policy) Authorize(actor service.Actor, action service.Action, resource service.Resource) error {
	// Admins hold every capability.
	if slices.Contains(actor.Roles, string(entity.RoleAdmin)) {
		return nil
	}

	switch action {
	case service.ActionManage:
		// Catalog, coupon and order administration is admin-only.
		return domainerrors.ErrForbidden.WithDetails("requires admin role")

	case service.ActionRead, service.ActionWrite:
		// Owned resources are accessible to their owner only.
		if resource.OwnerID == uuid.Nil || resource.OwnerID == actor.UserID {
			return nil
		}

		return domainerrors.ErrForbidden.WithDetails("resource belongs to another user")

	default:
		return domainerrors.ErrForbidden
	}
}
