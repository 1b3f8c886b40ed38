// Package store keeps the latest downtime snapshot and writes the event log.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/macrat/topodown/internal/topoerr"
)

const maxErrors = 10

// Store holds the latest snapshot of the feeds, and it also the event log of topodown.
type Store struct {
	name string
	path Pattern

	Console io.Writer

	snapshotLock sync.RWMutex
	snapshot     *Snapshot
	refresh      RefreshStatus

	writeCh       chan<- Event
	writerStopped chan struct{}
	errorsLock    sync.RWMutex
	errors        []string
	healthy       bool
}

// New creates a Store that writes events to console, and to the file at path if path is not empty.
// path can contain date placeholders like %Y%m%d to rotate the log file; see Pattern.
// name is the instance name shown on the pages; it can be empty.
func New(name, path string, console io.Writer) (*Store, error) {
	ch := make(chan Event, 32)

	store := &Store{
		name:          name,
		path:          ParsePattern(path),
		Console:       console,
		writeCh:       ch,
		writerStopped: make(chan struct{}),
		healthy:       true,
	}

	if !store.path.IsEmpty() {
		if f, err := openLogFile(store.path.Build(time.Now())); err != nil {
			close(ch)
			return nil, err
		} else {
			f.Close()
		}
	}

	go store.writer(ch, store.writerStopped)

	return store, nil
}

// Name returns the instance name.
func (s *Store) Name() string {
	return s.name
}

// Path returns path pattern of log file.
func (s *Store) Path() string {
	return s.path.String()
}

// Snapshot returns the latest snapshot.
// It returns an error wrapping topoerr.ErrFeedUnavailable until the first refresh succeeds.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.snapshotLock.RLock()
	defer s.snapshotLock.RUnlock()

	if s.snapshot == nil {
		msg := "no refresh has completed yet"
		if s.refresh.Error != "" {
			msg = s.refresh.Error
		}
		return nil, topoerr.New(topoerr.ErrFeedUnavailable, nil, "%s", msg)
	}
	return s.snapshot, nil
}

// Update replaces the snapshot with a newer one.
func (s *Store) Update(snap Snapshot, latency time.Duration) {
	s.snapshotLock.Lock()
	s.snapshot = &snap
	s.refresh.Status = StatusHealthy
	s.refresh.RefreshID = snap.RefreshID
	s.refresh.AttemptedAt = snap.FetchedAt
	s.refresh.SucceededAt = snap.FetchedAt
	s.refresh.Latency = latency
	s.refresh.Error = ""
	s.refresh.Successes++
	s.snapshotLock.Unlock()

	past, current, future := snap.Count()
	s.Report(Event{
		Time:    snap.FetchedAt,
		Status:  StatusHealthy,
		Latency: latency,
		Target:  "topodown:refresh",
		Message: fmt.Sprintf("%d sites updated", len(snap.Rows)),
		Extra: map[string]any{
			"refresh_id": snap.RefreshID.String(),
			"past":       past,
			"current":    current,
			"future":     future,
		},
	})
}

// SetRefreshError records a failed refresh.
// The current snapshot is kept as is.
func (s *Store) SetRefreshError(id uuid.UUID, at time.Time, latency time.Duration, err error) {
	s.snapshotLock.Lock()
	s.refresh.Status = StatusFailure
	s.refresh.RefreshID = id
	s.refresh.AttemptedAt = at
	s.refresh.Latency = latency
	s.refresh.Error = err.Error()
	s.refresh.Failures++
	stale := s.snapshot != nil
	s.snapshotLock.Unlock()

	s.Report(Event{
		Time:    at,
		Status:  StatusFailure,
		Latency: latency,
		Target:  "topodown:refresh",
		Message: err.Error(),
		Extra: map[string]any{
			"refresh_id":    id.String(),
			"serving_stale": stale,
		},
	})
}

// LastRefresh returns the status of the latest refresh attempts.
func (s *Store) LastRefresh() RefreshStatus {
	s.snapshotLock.RLock()
	defer s.snapshotLock.RUnlock()

	return s.refresh
}

// Report writes an event to the console and the log file.
func (s *Store) Report(e Event) {
	e.Message = strings.Trim(e.Message, "\r\n")
	s.writeCh <- e
}

// ReportInternalError reports an error that is not caused by the upstream feeds.
func (s *Store) ReportInternalError(scope, message string) {
	s.addError(scope + ": " + message)

	s.Report(Event{
		Time:    time.Now(),
		Status:  StatusFailure,
		Target:  "topodown:" + scope,
		Message: message,
	})
}

// handleError reports an error of write a log.
// This error will reported to console in this method, and /healthz page via Store.Errors method.
func (s *Store) handleError(err error, exportableErrorMessage string) {
	if err != nil {
		s.addError(exportableErrorMessage)
		strings.NewReader(Event{
			Time:    time.Now(),
			Status:  StatusFailure,
			Target:  "topodown:log",
			Message: err.Error(),
		}.String() + "\n").WriteTo(s.Console)
	}
}

func (s *Store) writer(ch <-chan Event, stopped chan struct{}) {
	var reader strings.Reader

	for e := range ch {
		msg := e.String() + "\n"

		reader.Reset(msg)
		reader.WriteTo(s.Console)

		if s.path.IsEmpty() {
			continue
		}

		f, err := openLogFile(s.path.Build(e.Time))
		if err != nil {
			s.handleError(err, "failed to open log file")
			continue
		}

		reader.Seek(0, io.SeekStart)
		_, err = reader.WriteTo(f)
		s.handleError(err, "failed to write log file")

		err = f.Close()
		s.handleError(err, "failed to close log file")
	}

	close(stopped)
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
}

// Close flushes the pending events and stops the writer.
func (s *Store) Close() error {
	close(s.writeCh)
	<-s.writerStopped
	return nil
}

// addError adds error message for Errors method, and set healthy status to false.
func (s *Store) addError(message string) {
	s.errorsLock.Lock()
	defer s.errorsLock.Unlock()

	s.healthy = false
	s.errors = append(
		s.errors,
		fmt.Sprintf("%s\t%s", time.Now().Format(time.RFC3339), message),
	)

	if len(s.errors) > maxErrors {
		s.errors = s.errors[1:]
	}
}

// Errors returns store status and error logs.
func (s *Store) Errors() (healthy bool, messages []string) {
	s.errorsLock.RLock()
	defer s.errorsLock.RUnlock()

	return s.healthy, append([]string(nil), s.errors...)
}
