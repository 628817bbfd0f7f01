// Package resource provides the uniform CRUD resource layer shared by the
// flat entity collections (API catalog, API keys, snippets). A resource is a
// document type stored in its own collection; the generic Handler exposes
// list/create/update/delete over HTTP with fixed-size pagination and
// case-insensitive substring search, and the generic Store interface is
// implemented by the Mongo-backed collection in pkg/store and by the
// in-memory store used in tests and local development.
package resource
