package testutil

import (
	"bytes"
	_ "embed"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/store"
	"github.com/macrat/topodown/internal/topology"
)

var (
	//go:embed testdata/downtimes.xml
	DowntimesXML []byte

	//go:embed testdata/rgsummary.xml
	ResourceSummaryXML []byte
)

var (
	// FetchedAt is the fetch time of the fixture snapshot.
	FetchedAt = time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)

	// RefreshID is the refresh ID of the fixture snapshot.
	RefreshID = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
)

// Downtimes decodes the fixture downtime feed.
func Downtimes(t testing.TB) topology.DowntimesDocument {
	t.Helper()

	doc, err := topology.DecodeDowntimes(bytes.NewReader(DowntimesXML))
	if err != nil {
		t.Fatalf("failed to decode downtimes fixture: %s", err)
	}
	return doc
}

// ResourceSummary decodes the fixture resource group directory.
func ResourceSummary(t testing.TB) topology.ResourceSummaryDocument {
	t.Helper()

	doc, err := topology.DecodeResourceSummary(bytes.NewReader(ResourceSummaryXML))
	if err != nil {
		t.Fatalf("failed to decode resource summary fixture: %s", err)
	}
	return doc
}

// Snapshot builds a snapshot from the fixtures, filtered by the default service allow-list.
//
// The rows are:
//
//	UCSD           past 1, current 1, future 1
//	Orphan-Group   current 1 (not in the directory, end date is invalid)
//	Nebraska       past 1
//	Midwest Tier2  future 1
func Snapshot(t testing.TB) store.Snapshot {
	t.Helper()

	downtimes := Downtimes(t)
	groups := ResourceSummary(t)
	dir := pivot.NewDirectory(groups.ResourceSummary.Groups())

	return store.Snapshot{
		Downtimes:      downtimes,
		ResourceGroups: groups,
		Rows:           pivot.Pivot(downtimes.Downtimes, dir, pivot.DefaultAllowList),
		FetchedAt:      FetchedAt,
		RefreshID:      RefreshID,
	}
}

func NewStoreWithConsole(t testing.TB, w io.Writer) *store.Store {
	t.Helper()

	s, err := store.New("test", filepath.Join(t.TempDir(), "topodown.log"), w)
	if err != nil {
		t.Fatalf("failed to create store: %s", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// NewStore creates an empty store, which has no snapshot yet.
func NewStore(t testing.TB) *store.Store {
	t.Helper()

	return NewStoreWithConsole(t, io.Discard)
}

// NewStoreWithSnapshot creates a store that holds the fixture snapshot.
func NewStoreWithSnapshot(t testing.TB) *store.Store {
	t.Helper()

	s := NewStore(t)
	s.Update(Snapshot(t), 120*time.Millisecond)
	return s
}
