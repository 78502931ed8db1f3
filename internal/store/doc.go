// Package store defines the persistence interfaces for the task board and
// the shared transaction machinery used by their implementations. Concrete
// PostgreSQL implementations live in internal/platform/postgres.
package store
