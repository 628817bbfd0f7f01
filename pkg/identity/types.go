package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrUnauthenticated is returned when no identity is resolvable from a
	// request.
	ErrUnauthenticated = errors.New("no user identity")

	// ErrForbidden is returned when the caller's role does not satisfy an
	// authorization predicate.
	ErrForbidden = errors.New("insufficient role")
)

// RoleAdmin is the only role with elevated access.
const RoleAdmin = "admin"

// User is the projection returned by the user listing.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// EmailAddress is one registered address on a profile.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// Profile is a user record as the identity provider returns it.
type Profile struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	PublicMetadata map[string]any `json:"public_metadata"`
}

// DisplayName synthesizes a name from the first and last name fields.
func (p *Profile) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// PrimaryEmail returns the first registered address, which may be absent.
func (p *Profile) PrimaryEmail() string {
	if len(p.EmailAddresses) == 0 {
		return ""
	}
	return p.EmailAddresses[0].EmailAddress
}

// Role returns the role recorded in the profile's public metadata.
func (p *Profile) Role() string {
	role, _ := p.PublicMetadata["role"].(string)
	return role
}

// Provider resolves identities and profiles from the identity provider.
type Provider interface {
	// Authenticate resolves the calling user's id from the request,
	// returning ErrUnauthenticated when none is resolvable.
	Authenticate(r *http.Request) (string, error)

	// GetUser fetches one profile. Role metadata is never cached; every
	// authorization check re-fetches.
	GetUser(ctx context.Context, id string) (*Profile, error)

	// ListUsers fetches every registered user.
	ListUsers(ctx context.Context) ([]*Profile, error)
}
