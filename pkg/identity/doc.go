// Package identity integrates the third-party identity provider. It
// resolves the calling user from a request, exposes profile and role
// metadata, and serves the admin-only user listing. Authorization is a
// single role predicate behind the Authorizer interface so future endpoints
// can share the same gate.
package identity
