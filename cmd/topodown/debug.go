//go:build debug

package main

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"runtime"
	"time"

	"github.com/macrat/topodown/internal/store"
)

const pprofAddr = "localhost:6060"

// startDebugLogger reports the process and refresh statistics every minute, and serves pprof until ctx is done.
func startDebugLogger(ctx context.Context, s *store.Store) {
	started := time.Now()

	report := func(message string, extra map[string]any) {
		s.Report(store.Event{
			Time:    time.Now(),
			Status:  store.StatusHealthy,
			Target:  "topodown:debug",
			Message: message,
			Extra:   extra,
		})
	}

	report("start in debug mode", map[string]any{
		"goversion": runtime.Version(),
		"platform":  runtime.GOOS + "/" + runtime.GOARCH,
		"pprof":     "http://" + pprofAddr + "/debug/pprof/",
	})

	go func() {
		tick := time.NewTicker(time.Minute)
		defer tick.Stop()

		for {
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)

			last := s.LastRefresh()
			extra := map[string]any{
				"goroutines":     runtime.NumGoroutine(),
				"heap_alloc":     mem.HeapAlloc,
				"num_gc":         mem.NumGC,
				"uptime_seconds": int(time.Since(started).Seconds()),
				"refreshes":      last.Successes,
				"refresh_errors": last.Failures,
			}
			if snap, err := s.Snapshot(); err == nil {
				extra["sites"] = len(snap.Rows)
				extra["snapshot_age_seconds"] = int(time.Since(snap.FetchedAt).Seconds())
			}
			report("process status", extra)

			select {
			case <-ctx.Done():
				return
			case <-tick.C:
			}
		}
	}()

	srv := &http.Server{Addr: pprofAddr, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			report("pprof server has stopped", map[string]any{
				"reason": err.Error(),
			})
		}
	}()
}
