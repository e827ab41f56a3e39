// Package store defines the persistence interfaces for tasks and comments,
// the errors every implementation reports, and the transaction helper
// services use to run an operation atomically. Implementations live under
// internal/platform.
package store
