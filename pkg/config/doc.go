// Package config loads service configuration from environment variables and
// validates it at startup. A missing document store connection string is
// fatal.
package config
