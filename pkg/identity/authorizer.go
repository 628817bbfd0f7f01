package identity

import (
	"context"
	"fmt"
)

// Authorizer decides whether a resolved identity may perform an operation.
type Authorizer interface {
	Authorize(ctx context.Context, userID string) error
}

// RoleAuthorizer allows users whose public metadata carries a specific role.
// The profile is fetched from the provider on every call.
type RoleAuthorizer struct {
	provider Provider
	role     string
}

// NewRoleAuthorizer creates an authorizer requiring role.
func NewRoleAuthorizer(provider Provider, role string) *RoleAuthorizer {
	return &RoleAuthorizer{provider: provider, role: role}
}

// Authorize returns ErrForbidden when the user's role does not match, and
// the underlying fault when the profile cannot be fetched.
func (a *RoleAuthorizer) Authorize(ctx context.Context, userID string) error {
	profile, err := a.provider.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetching profile for %s: %w", userID, err)
	}
	if profile.Role() != a.role {
		return ErrForbidden
	}
	return nil
}
