package endpoint

import (
	"github.com/macrat/topodown/internal/store"
)

type Store interface {
	// Name returns the topodown instance name.
	Name() string

	// Snapshot returns the latest snapshot.
	// The error wraps topoerr.ErrFeedUnavailable until the first refresh succeeds.
	Snapshot() (*store.Snapshot, error)

	// LastRefresh returns the status of the latest refresh attempts.
	LastRefresh() store.RefreshStatus

	// ReportInternalError reports topodown internal error.
	ReportInternalError(scope, message string)

	// Errors returns a list of internal (critical) errors.
	Errors() (healthy bool, messages []string)
}
