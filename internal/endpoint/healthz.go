package endpoint

import (
	"fmt"
	"net/http"
	"time"

	"github.com/macrat/topodown/internal/store"
)

// HealthzEndpoint is the http.HandlerFunc for /healthz page.
//
// It reports FAILURE if the latest refresh failed or topodown has an internal error.
func HealthzEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")

		healthy, messages := s.Errors()

		refresh := s.LastRefresh()
		if refresh.Status == store.StatusFailure {
			healthy = false
			messages = append(
				[]string{fmt.Sprintf("%s\trefresh failed: %s", refresh.AttemptedAt.Format(time.RFC3339), refresh.Error)},
				messages...,
			)
		}

		if healthy {
			fmt.Fprintln(w, "HEALTHY")
		} else {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintln(w, "FAILURE")
		}

		for _, msg := range messages {
			fmt.Fprintln(w, msg)
		}
	}
}
