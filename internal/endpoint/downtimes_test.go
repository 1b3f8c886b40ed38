package endpoint_test

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/store"
	"github.com/macrat/topodown/internal/testutil"
	"github.com/macrat/topodown/internal/topology"
	"github.com/xuri/excelize/v2"
)

// assertOrder checks that all of names appear in body in the given order.
func assertOrder(t *testing.T, body string, names ...string) {
	t.Helper()

	prev := -1
	for _, name := range names {
		idx := strings.Index(body, name)
		if idx < 0 {
			t.Errorf("%q is not found in the body", name)
			return
		}
		if idx < prev {
			t.Errorf("%q appeared earlier than expected", name)
		}
		prev = idx
	}
}

func TestDowntimesHTMLEndpoint(t *testing.T) {
	srv := testutil.StartTestServer(t)

	tests := []struct {
		Query   string
		Order   []string
		Missing []string
	}{
		{"", []string{"Midwest Tier2", "Nebraska", "Orphan-Group", "UCSD"}, nil},
		{"?sort=site&order=desc", []string{"UCSD", "Orphan-Group", "Nebraska", "Midwest Tier2"}, nil},
		{"?sort=past&order=desc", []string{"Nebraska", "UCSD", "Midwest Tier2", "Orphan-Group"}, nil},
		{"?q=ucsd", []string{"UCSD"}, []string{"Nebraska", "Midwest Tier2", "Orphan-Group"}},
	}

	for _, tt := range tests {
		t.Run(tt.Query, func(t *testing.T) {
			resp, body := get(t, srv, "/downtimes.html"+tt.Query)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("unexpected status: %s", resp.Status)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=UTF-8" {
				t.Errorf("unexpected content type: %s", ct)
			}

			body = body[strings.Index(body, "<tbody>"):]

			assertOrder(t, body, tt.Order...)
			for _, name := range tt.Missing {
				if strings.Contains(body, name) {
					t.Errorf("%q should be filtered out", name)
				}
			}
		})
	}
}

func TestDowntimesHTMLEndpoint_cells(t *testing.T) {
	srv := testutil.StartTestServer(t)

	_, body := get(t, srv, "/downtimes.html")

	for _, s := range []string{
		`<td class="resource">UCSD-CE1</td>`,
		`<time datetime="2024-01-10T16:00:00Z"`,
		`>2024-01-10</time>`,
		`>Invalid DateTime</time>`,
		`title="Cooling maintenance"`,
		`<a href="?order=desc&amp;sort=site">Site</a> ▲`,
		`<a href="?order=asc&amp;sort=past">Past Downtimes</a>`,
		`<a href="/downtimes.csv?order=asc&amp;sort=site">CSV</a>`,
		`4 of 4 sites`,
	} {
		if !strings.Contains(body, s) {
			t.Errorf("%q is not found in the page", s)
		}
	}

	if strings.Contains(body, "more</span>") {
		t.Errorf("cells with few downtimes should not be folded")
	}
	if strings.Contains(body, `role="alert"`) {
		t.Errorf("fresh snapshot should not show the warning")
	}
}

func TestDowntimesHTMLEndpoint_fold(t *testing.T) {
	var past []pivot.Downtime
	for i := 0; i < 7; i++ {
		past = append(past, pivot.ParseDowntime(topology.Downtime{
			ResourceName: fmt.Sprintf("RES-%d", i),
			StartTime:    fmt.Sprintf("Jan %02d, 2024 10:00 AM UTC", i+1),
			EndTime:      fmt.Sprintf("Jan %02d, 2024 11:00 AM UTC", i+1),
		}))
	}

	s := testutil.NewStore(t)
	s.Update(store.Snapshot{
		Rows:      []pivot.SiteRow{{SiteName: "Busy", Past: past}},
		FetchedAt: testutil.FetchedAt,
		RefreshID: testutil.RefreshID,
	}, 0)
	srv := testutil.StartTestServerWithStore(t, s)

	_, body := get(t, srv, "/downtimes.html")

	details := strings.Index(body, "<details>")
	if details < 0 {
		t.Fatalf("the cell is not folded")
	}

	if !strings.Contains(body, `<span class="more">+ 2 more</span><span class="less">show less</span>`) {
		t.Errorf("unexpected expand control")
	}
	assertOrder(t, body, "RES-0", "RES-4", "<details>", "RES-5", "RES-6")
}

func TestDowntimesHTMLEndpoint_stale(t *testing.T) {
	s := testutil.NewStoreWithSnapshot(t)
	s.SetRefreshError(uuid.New(), testutil.FetchedAt.Add(time.Hour), time.Second, errors.New("upstream is down"))
	srv := testutil.StartTestServerWithStore(t, s)

	resp, body := get(t, srv, "/downtimes.html")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %s", resp.Status)
	}

	if !strings.Contains(body, `role="alert"`) || !strings.Contains(body, "upstream is down") {
		t.Errorf("stale warning is not shown")
	}
	assertOrder(t, body, "Midwest Tier2", "UCSD")
}

func TestDowntimesTextEndpoint(t *testing.T) {
	srv := testutil.StartTestServer(t)

	resp, body := get(t, srv, "/downtimes.txt?sort=current&order=desc")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %s", resp.Status)
	}

	lines := strings.Split(strings.TrimSpace(body), "\n")
	if !strings.HasPrefix(lines[0], "SITE") {
		t.Errorf("unexpected header: %s", lines[0])
	}

	var sites []string
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, " ") {
			sites = append(sites, strings.Fields(l)[0])
		}
	}

	// "Midwest Tier2" has a space in its name.
	if diff := cmp.Diff([]string{"Orphan-Group", "UCSD", "Midwest", "Nebraska"}, sites); diff != "" {
		t.Errorf("unexpected order of sites:\n%s", diff)
	}
}

func TestDowntimesJSONEndpoint(t *testing.T) {
	srv := testutil.StartTestServer(t)

	resp, body := get(t, srv, "/downtimes.json?q=u&sort=future")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json; charset=UTF-8" {
		t.Errorf("unexpected content type: %s", ct)
	}

	var result struct {
		Name      string `json:"name"`
		FetchedAt string `json:"fetched_at"`
		RefreshID string `json:"refresh_id"`
		Stale     bool   `json:"stale"`
		Filter    string `json:"filter"`
		Sort      string `json:"sort"`
		Order     string `json:"order"`
		Rows      []struct {
			SiteName string
			Current  []struct {
				ResourceName string
				StartDate    *string
				EndDate      *string
			}
		} `json:"rows"`
	}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to decode response: %s\n%s", err, body)
	}

	if result.Name != "test" || result.FetchedAt != "2024-02-15T12:00:00Z" || result.RefreshID != testutil.RefreshID.String() {
		t.Errorf("unexpected metadata: %#v", result)
	}
	if result.Stale {
		t.Errorf("unexpected stale flag")
	}
	if result.Filter != "u" || result.Sort != "future" || result.Order != "asc" {
		t.Errorf("unexpected query: %q %q %q", result.Filter, result.Sort, result.Order)
	}

	var sites []string
	for _, r := range result.Rows {
		sites = append(sites, r.SiteName)
	}
	if diff := cmp.Diff([]string{"Orphan-Group", "UCSD"}, sites); diff != "" {
		t.Errorf("unexpected sites:\n%s", diff)
	}

	orphan := result.Rows[0].Current[0]
	if orphan.StartDate == nil || *orphan.StartDate != "2024-02-02T12:00:00Z" {
		t.Errorf("unexpected start date: %v", orphan.StartDate)
	}
	if orphan.EndDate != nil {
		t.Errorf("invalid end date should be null but got %s", *orphan.EndDate)
	}
}

func TestDowntimesCSVEndpoint(t *testing.T) {
	srv := testutil.StartTestServer(t)

	resp, body := get(t, srv, "/downtimes.csv?q=UCSD")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv; charset=UTF-8" {
		t.Errorf("unexpected content type: %s", ct)
	}

	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %s", err)
	}

	var actual []string
	for _, r := range records[1:] {
		actual = append(actual, r[0]+"/"+r[1]+"/"+r[2])
	}

	expected := []string{
		"UCSD/past/UCSD-CE1",
		"UCSD/current/UCSD-EP1",
		"UCSD/future/UCSD-CE2",
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("unexpected records:\n%s", diff)
	}
}

func TestDowntimesXlsxEndpoint(t *testing.T) {
	srv := testutil.StartTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/downtimes.xlsx")
	if err != nil {
		t.Fatalf("failed to get /downtimes.xlsx: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %s", resp.Status)
	}

	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatalf("failed to open xlsx: %s", err)
	}
	defer f.Close()

	rows, err := f.GetRows("downtimes")
	if err != nil {
		t.Fatalf("failed to read rows: %s", err)
	}
	if len(rows) != 7 {
		t.Errorf("expected 1 header and 6 records but got %d rows", len(rows))
	}
	if rows[1][0] != "Midwest Tier2" {
		t.Errorf("unexpected first site: %s", rows[1][0])
	}
}

func TestDowntimesEndpoints_badRequest(t *testing.T) {
	srv := testutil.StartTestServer(t)

	for _, path := range []string{
		"/downtimes.html?sort=nothing",
		"/downtimes.txt?order=sideways",
		"/downtimes.json?sort=site&order=random",
		"/downtimes.csv?sort=1",
		"/downtimes.xlsx?sort=x",
	} {
		t.Run(path, func(t *testing.T) {
			resp, _ := get(t, srv, path)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("unexpected status: %s", resp.Status)
			}
		})
	}
}

func TestDowntimesEndpoints_unavailable(t *testing.T) {
	srv := testutil.StartEmptyTestServer(t)

	for _, path := range []string{
		"/downtimes.html",
		"/downtimes.txt",
		"/downtimes.json",
		"/downtimes.csv",
		"/downtimes.xlsx",
		"/api/downtimes",
		"/api/resource-groups",
	} {
		t.Run(path, func(t *testing.T) {
			resp, body := get(t, srv, path)
			if resp.StatusCode != http.StatusServiceUnavailable {
				t.Errorf("unexpected status: %s", resp.Status)
			}
			if resp.Header.Get("Retry-After") == "" {
				t.Errorf("Retry-After header is not set")
			}
			if !strings.HasPrefix(body, "feed unavailable: ") {
				t.Errorf("unexpected body: %s", body)
			}
		})
	}
}
