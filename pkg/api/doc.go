// Package api composes the HTTP server: the router, the middleware chain,
// and the per-entity route registrations. Presentation clients talk only to
// this surface.
package api
