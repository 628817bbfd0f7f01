// Package store is the document-store adapter. It owns the single Mongo
// client for the process: the connection is established lazily on first use
// behind a sync.Once guard and shared by every collection, and the Store is
// passed to features by dependency injection rather than held in package
// state. Collection is the Mongo-backed implementation of the generic
// resource.Store contract.
package store
