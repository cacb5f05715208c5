// Package common holds the small filesystem helpers shared by configuration and stage workers:
// YAML loading, idempotent directory creation and atomic file writes.
package common
