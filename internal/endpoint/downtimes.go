package endpoint

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/macrat/topodown/internal/export"
	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/store"
	"github.com/macrat/topodown/internal/view"
)

// pageQuery is the query parameters of the /downtimes.* endpoints.
type pageQuery struct {
	Filter string
	Sort   view.Sort
}

func parsePageQuery(r *http.Request) (pageQuery, error) {
	qs := r.URL.Query()

	s, err := view.ParseSort(qs.Get("sort"), qs.Get("order"))
	if err != nil {
		return pageQuery{}, err
	}

	return pageQuery{
		Filter: qs.Get("q"),
		Sort:   s,
	}, nil
}

// downtimesPage is the view-model of the downtime table.
type downtimesPage struct {
	Name      string
	Filter    string
	Sort      view.Sort
	Rows      []pivot.SiteRow
	Total     int
	FetchedAt time.Time
	RefreshID string
	Refresh   store.RefreshStatus
}

// prepare parses the query and applies it to the latest snapshot.
// If it returns false, an error response is already written.
func prepare(s Store, scope string, w http.ResponseWriter, r *http.Request) (downtimesPage, bool) {
	q, err := parsePageQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return downtimesPage{}, false
	}

	snap := snapshotOrError(s, scope, w)
	if snap == nil {
		return downtimesPage{}, false
	}

	return downtimesPage{
		Name:      s.Name(),
		Filter:    q.Filter,
		Sort:      q.Sort,
		Rows:      view.Apply(snap.Rows, q.Filter, q.Sort),
		Total:     len(snap.Rows),
		FetchedAt: snap.FetchedAt,
		RefreshID: snap.RefreshID.String(),
		Refresh:   s.LastRefresh(),
	}, true
}

//go:embed templates/downtimes.html
var downtimesHTMLTemplate string

func DowntimesHTMLEndpoint(s Store) http.HandlerFunc {
	tmpl := loadHTMLTemplate(downtimesHTMLTemplate)

	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := prepare(s, "downtimes.html", w, r)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=UTF-8")

		handleError(s, "downtimes.html", tmpl.Execute(newChunkWriter(w), page))
	}
}

func DowntimesTextEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := prepare(s, "downtimes.txt", w, r)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")

		handleError(s, "downtimes.txt", export.ToText(newChunkWriter(w), page.Rows))
	}
}

type downtimesJSON struct {
	Name      string          `json:"name,omitempty"`
	FetchedAt string          `json:"fetched_at"`
	RefreshID string          `json:"refresh_id"`
	Stale     bool            `json:"stale"`
	Filter    string          `json:"filter"`
	Sort      string          `json:"sort"`
	Order     string          `json:"order,omitempty"`
	Rows      []pivot.SiteRow `json:"rows"`
}

func DowntimesJSONEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := prepare(s, "downtimes.json", w, r)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET")

		enc := json.NewEncoder(newChunkWriter(w))

		handleError(s, "downtimes.json", enc.Encode(downtimesJSON{
			Name:      page.Name,
			FetchedAt: page.FetchedAt.Format(time.RFC3339),
			RefreshID: page.RefreshID,
			Stale:     page.Refresh.Stale(),
			Filter:    page.Filter,
			Sort:      page.Sort.Query("").Get("sort"),
			Order:     page.Sort.Query("").Get("order"),
			Rows:      page.Rows,
		}))
	}
}

func DowntimesCSVEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := prepare(s, "downtimes.csv", w, r)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=UTF-8")

		handleError(s, "downtimes.csv", export.ToCSV(newChunkWriter(w), page.Rows))
	}
}

func DowntimesXlsxEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := prepare(s, "downtimes.xlsx", w, r)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="downtimes.xlsx"`)

		handleError(s, "downtimes.xlsx", export.ToXlsx(w, page.Rows, page.FetchedAt))
	}
}
