// Package httputil provides JSON request/response helpers and the HTTP
// middleware chain (request IDs, logging, panic recovery, CORS, metrics)
// shared by every handler.
package httputil
