package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/topology"
)

// Snapshot is the outcome of one successful refresh.
// A Snapshot is never modified after it is handed to Store.Update.
type Snapshot struct {
	Downtimes      topology.DowntimesDocument
	ResourceGroups topology.ResourceSummaryDocument
	Rows           []pivot.SiteRow
	FetchedAt      time.Time
	RefreshID      uuid.UUID
}

// Count returns the number of downtimes in the rows, per category.
func (s *Snapshot) Count() (past, current, future int) {
	for _, r := range s.Rows {
		past += len(r.Past)
		current += len(r.Current)
		future += len(r.Future)
	}
	return
}

// RefreshStatus describes the latest refresh attempts.
type RefreshStatus struct {
	Status      Status
	RefreshID   uuid.UUID
	AttemptedAt time.Time
	SucceededAt time.Time
	Latency     time.Duration
	Error       string
	Successes   int
	Failures    int
}

// Stale reports whether the last attempt failed while an older snapshot is still served.
func (r RefreshStatus) Stale() bool {
	return r.Status == StatusFailure && !r.SucceededAt.IsZero()
}
