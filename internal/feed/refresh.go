package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/store"
	"github.com/macrat/topodown/internal/topology"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// Store is where a Refresher puts the outcome of a refresh.
type Store interface {
	Update(snap store.Snapshot, latency time.Duration)
	SetRefreshError(id uuid.UUID, at time.Time, latency time.Duration, err error)
}

// Refresher fetches both documents of a Source and turns them into a snapshot.
type Refresher struct {
	Fetcher   *Fetcher
	Source    Source
	AllowList pivot.AllowList
	Store     Store

	mu sync.Mutex
}

// Refresh fetches the feeds once.
// On success the snapshot in the Store is replaced; on failure it is left as is and the error is recorded.
func (r *Refresher) Refresh(ctx context.Context) (store.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	st := time.Now()

	var (
		downtimes topology.DowntimesDocument
		groups    topology.ResourceSummaryDocument
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		downtimes, err = r.Fetcher.FetchDowntimes(ctx, r.Source.DowntimesURL)
		return err
	})
	eg.Go(func() (err error) {
		groups, err = r.Fetcher.FetchResourceSummary(ctx, r.Source.ResourceGroupsURL)
		return err
	})

	if err := eg.Wait(); err != nil {
		r.Store.SetRefreshError(id, st, time.Since(st), err)
		return store.Snapshot{}, err
	}

	snap := Build(downtimes, groups, r.AllowList)
	snap.FetchedAt = st
	snap.RefreshID = id

	r.Store.Update(snap, time.Since(st))

	return snap, nil
}

// Build pivots a pair of decoded documents into a snapshot.
func Build(downtimes topology.DowntimesDocument, groups topology.ResourceSummaryDocument, allow pivot.AllowList) store.Snapshot {
	dir := pivot.NewDirectory(groups.ResourceSummary.Groups())

	return store.Snapshot{
		Downtimes:      downtimes,
		ResourceGroups: groups,
		Rows:           pivot.Pivot(downtimes.Downtimes, dir, allow),
	}
}

// MakeJob makes a cron.Job that refreshes the feeds.
func (r *Refresher) MakeJob(ctx context.Context) cron.Job {
	return cron.FuncJob(func() {
		r.Refresh(ctx)
	})
}
