// Package endpoint implements the HTTP interface of topodown.
package endpoint

import (
	_ "embed"
	"errors"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/macrat/topodown/internal/store"
	"github.com/macrat/topodown/internal/topoerr"
)

//go:embed static/favicon.svg
var faviconSvg []byte

//go:embed static/not-found.html
var notFoundPage []byte

func New(s Store) http.Handler {
	m := http.NewServeMux()

	m.HandleFunc("/favicon.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(faviconSvg)
	})

	m.Handle("/downtimes", http.RedirectHandler("/downtimes.html", http.StatusMovedPermanently))
	m.HandleFunc("/downtimes.html", DowntimesHTMLEndpoint(s))
	m.HandleFunc("/downtimes.txt", DowntimesTextEndpoint(s))
	m.HandleFunc("/downtimes.json", DowntimesJSONEndpoint(s))
	m.HandleFunc("/downtimes.csv", DowntimesCSVEndpoint(s))
	m.HandleFunc("/downtimes.xlsx", DowntimesXlsxEndpoint(s))

	m.HandleFunc("/api/downtimes", DowntimesRelayEndpoint(s))
	m.HandleFunc("/api/resource-groups", ResourceGroupsRelayEndpoint(s))

	m.HandleFunc("/metrics", MetricsEndpoint(s))
	m.HandleFunc("/healthz", HealthzEndpoint(s))
	m.Handle("/mcp", MCPHandler(s))

	m.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/downtimes.html", http.StatusFound)
		} else {
			w.Header().Set("Content-Type", "text/html; charset=UTF-8")
			w.WriteHeader(http.StatusNotFound)
			w.Write(notFoundPage)
		}
	})

	return gziphandler.GzipHandler(m)
}

func handleError(s Store, scope string, err error) {
	if err != nil {
		s.ReportInternalError("endpoint:"+scope, err.Error())
	}
}

// snapshotOrError returns the latest snapshot.
// If there is no snapshot, it writes an error response and returns nil.
func snapshotOrError(s Store, scope string, w http.ResponseWriter) *store.Snapshot {
	snap, err := s.Snapshot()
	if err == nil {
		return snap
	}

	if errors.Is(err, topoerr.ErrFeedUnavailable) {
		w.Header().Set("Retry-After", "60")
		http.Error(w, "feed unavailable: "+err.Error(), http.StatusServiceUnavailable)
	} else {
		handleError(s, scope, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
	return nil
}
