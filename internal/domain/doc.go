// Package domain holds the Task and Comment entities, their validation and
// partial-update rules, and the validation errors surfaced to API clients.
// It has no knowledge of storage or HTTP.
package domain
