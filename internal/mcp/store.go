package mcp

import (
	"github.com/macrat/topodown/internal/store"
)

// Store is an interface for accessing the downtime snapshot.
type Store interface {
	// Name returns the topodown instance name.
	Name() string

	// Snapshot returns the latest snapshot, or an error if no refresh has succeeded yet.
	Snapshot() (*store.Snapshot, error)

	// ReportInternalError reports topodown internal error.
	ReportInternalError(scope, message string)
}
