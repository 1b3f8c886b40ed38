package endpoint

import (
	"fmt"
	"net/http"

	"github.com/macrat/topodown/internal/store"
	"github.com/macrat/topodown/internal/topology"
)

func bool2int(b bool) int {
	if b {
		return 1
	}
	return 0
}

// MetricsEndpoint implements Prometheus metrics endpoint.
// This endpoint follows both of Prometheus specification and OpenMetrics specification.
func MetricsEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=UTF-8")

		refresh := s.LastRefresh()

		fmt.Fprintln(w, "# HELP topodown_refresh_status The status of the latest refresh.")
		fmt.Fprintln(w, "# TYPE topodown_refresh_status gauge")
		for _, st := range []store.Status{store.StatusHealthy, store.StatusFailure, store.StatusUnknown} {
			fmt.Fprintf(w, "topodown_refresh_status{status=\"%s\"} %d\n", st, bool2int(refresh.Status == st))
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "# HELP topodown_refresh_total The number of refreshes since server started.")
		fmt.Fprintln(w, "# TYPE topodown_refresh_total counter")
		fmt.Fprintf(w, "topodown_refresh_total{result=\"success\"} %d\n", refresh.Successes)
		fmt.Fprintf(w, "topodown_refresh_total{result=\"failure\"} %d\n", refresh.Failures)
		fmt.Fprintln(w)

		if !refresh.AttemptedAt.IsZero() {
			fmt.Fprintln(w, "# HELP topodown_refresh_latency_seconds The duration in seconds that taken the latest refresh.")
			fmt.Fprintln(w, "# TYPE topodown_refresh_latency_seconds gauge")
			fmt.Fprintln(w, "# UNIT topodown_refresh_latency_seconds seconds")
			fmt.Fprintf(w, "topodown_refresh_latency_seconds %f %d\n", refresh.Latency.Seconds(), refresh.AttemptedAt.UnixMilli())
			fmt.Fprintln(w)
		}

		if snap, err := s.Snapshot(); err == nil {
			ts := snap.FetchedAt.UnixMilli()

			fmt.Fprintln(w, "# HELP topodown_snapshot_timestamp_seconds The time when the served data was fetched.")
			fmt.Fprintln(w, "# TYPE topodown_snapshot_timestamp_seconds gauge")
			fmt.Fprintf(w, "topodown_snapshot_timestamp_seconds %d\n", snap.FetchedAt.Unix())
			fmt.Fprintln(w)

			fmt.Fprintln(w, "# HELP topodown_sites The number of sites that have downtimes.")
			fmt.Fprintln(w, "# TYPE topodown_sites gauge")
			fmt.Fprintf(w, "topodown_sites %d %d\n", len(snap.Rows), ts)
			fmt.Fprintln(w)

			past, current, future := snap.Count()
			fmt.Fprintln(w, "# HELP topodown_downtimes The number of downtimes.")
			fmt.Fprintln(w, "# TYPE topodown_downtimes gauge")
			fmt.Fprintf(w, "topodown_downtimes{category=\"%s\"} %d %d\n", topology.Past, past, ts)
			fmt.Fprintf(w, "topodown_downtimes{category=\"%s\"} %d %d\n", topology.Current, current, ts)
			fmt.Fprintf(w, "topodown_downtimes{category=\"%s\"} %d %d\n", topology.Future, future, ts)
			fmt.Fprintln(w)
		}

		healthy, _ := s.Errors()
		fmt.Fprintln(w, "# HELP topodown_healthy Whether topodown itself has no internal error.")
		fmt.Fprintln(w, "# TYPE topodown_healthy gauge")
		fmt.Fprintf(w, "topodown_healthy %d\n", bool2int(healthy))
	}
}
