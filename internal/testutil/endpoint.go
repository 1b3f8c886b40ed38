package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/macrat/topodown/internal/endpoint"
	"github.com/macrat/topodown/internal/store"
)

// StartTestServer starts a server that serves the test snapshot.
func StartTestServer(t testing.TB) *httptest.Server {
	t.Helper()

	return StartTestServerWithStore(t, NewStoreWithSnapshot(t))
}

// StartEmptyTestServer starts a server that has not fetched any feed yet.
func StartEmptyTestServer(t testing.TB) *httptest.Server {
	t.Helper()

	return StartTestServerWithStore(t, NewStore(t))
}

func StartTestServerWithStore(t testing.TB, s *store.Store) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(endpoint.New(s))
	t.Cleanup(srv.Close)
	return srv
}
