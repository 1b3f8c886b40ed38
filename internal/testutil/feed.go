package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// FeedServer is a fake of the topology registry.
type FeedServer struct {
	*httptest.Server

	// Fail makes every request answer 502 while it is true.
	Fail atomic.Bool

	// UserAgent is the User-Agent header of the last request.
	UserAgent atomic.Value
}

// StartFeedServer starts a fake registry that serves the fixtures at /rgdowntime/xml and /rgsummary/xml.
func StartFeedServer(t testing.TB) *FeedServer {
	t.Helper()

	fs := &FeedServer{}

	mux := http.NewServeMux()
	serve := func(body []byte) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fs.UserAgent.Store(r.UserAgent())

			if fs.Fail.Load() {
				http.Error(w, "upstream is down", http.StatusBadGateway)
				return
			}

			w.Header().Set("Content-Type", "text/xml; charset=utf-8")
			w.Write(body)
		}
	}
	mux.Handle("/rgdowntime/xml", serve(DowntimesXML))
	mux.Handle("/rgsummary/xml", serve(ResourceSummaryXML))
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)

	return fs
}

func (fs *FeedServer) DowntimesURL() string {
	return fs.URL + "/rgdowntime/xml?downtime_attrs_showpast=45"
}

func (fs *FeedServer) ResourceGroupsURL() string {
	return fs.URL + "/rgsummary/xml"
}
