package mcp_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/macrat/topodown/internal/mcp"
	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/topology"
)

func TestDowntimeToMap(t *testing.T) {
	d := pivot.Downtime{
		Downtime: topology.Downtime{
			ID:            1543200,
			ResourceGroup: topology.ResourceGroupRef{GroupName: "MWT2", GroupID: 303},
			ResourceName:  "MWT2-CE",
			ResourceFQDN:  "ce.mwt2.org",
			StartTime:     "Mar 05, 2024 02:00 PM UTC",
			EndTime:       "soon",
			Services: topology.Services{
				Service: topology.Many(
					topology.Service{ID: 1, Name: "CE"},
					topology.Service{ID: 138, Name: "Squid"},
				),
			},
			Description: "Network maintenance",
			Severity:    "Outage (completely inaccessible)",
			Class:       "SCHEDULED",
		},
		StartDate: pivot.DateOf(time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)),
	}

	want := map[string]any{
		"id":             1543200,
		"resource_group": "MWT2",
		"resource":       "MWT2-CE",
		"fqdn":           "ce.mwt2.org",
		"start":          "2024-03-05T14:00:00Z",
		"end":            nil,
		"start_text":     "Mar 05, 2024 02:00 PM UTC",
		"end_text":       "soon",
		"services": []any{
			map[string]any{"id": 1, "name": "CE"},
			map[string]any{"id": 138, "name": "Squid"},
		},
		"description": "Network maintenance",
		"severity":    "Outage (completely inaccessible)",
		"class":       "SCHEDULED",
	}

	if diff := cmp.Diff(want, mcp.DowntimeToMap(d)); diff != "" {
		t.Errorf("unexpected map:\n%s", diff)
	}
}

func TestRowToMap(t *testing.T) {
	row := pivot.SiteRow{
		SiteName: "UCSD",
		Current: []pivot.Downtime{
			{Downtime: topology.Downtime{ID: 1, ResourceName: "UCSD-CE"}},
		},
	}

	m := mcp.RowToMap(row)

	if m["site"] != "UCSD" {
		t.Errorf("unexpected site: %v", m["site"])
	}
	if n := len(m["past"].([]any)); n != 0 {
		t.Errorf("expected no past downtimes but got %d", n)
	}
	current := m["current"].([]any)
	if len(current) != 1 {
		t.Fatalf("expected 1 current downtime but got %d", len(current))
	}
	if r := current[0].(map[string]any)["resource"]; r != "UCSD-CE" {
		t.Errorf("unexpected resource: %v", r)
	}
	if n := len(m["future"].([]any)); n != 0 {
		t.Errorf("expected no future downtimes but got %d", n)
	}
}

func TestResourceGroupToMap(t *testing.T) {
	g := topology.ResourceGroup{
		GroupName:  "UCSD-CMS",
		GroupID:    301,
		Facility:   topology.NamedRef{ID: 10, Name: "UCSD"},
		Site:       topology.NamedRef{ID: 20, Name: "UCSD"},
		Production: " True ",
		Resources: &topology.Resources{
			Resource: topology.One(topology.Resource{ID: 1103, Name: "UCSD-CE", FQDN: "ce.ucsd.edu", Active: "true"}),
		},
	}

	want := map[string]any{
		"group":          "UCSD-CMS",
		"group_id":       301,
		"site":           "UCSD",
		"facility":       "UCSD",
		"support_center": "",
		"production":     true,
		"description":    "",
		"resources": []any{
			map[string]any{"id": 1103, "name": "UCSD-CE", "fqdn": "ce.ucsd.edu", "active": true},
		},
	}

	if diff := cmp.Diff(want, mcp.ResourceGroupToMap(g)); diff != "" {
		t.Errorf("unexpected map:\n%s", diff)
	}

	empty := mcp.ResourceGroupToMap(topology.ResourceGroup{GroupName: "EMPTY"})
	if n := len(empty["resources"].([]any)); n != 0 {
		t.Errorf("expected no resources but got %d", n)
	}
}
