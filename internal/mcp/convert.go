package mcp

import (
	"strings"

	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/topology"
)

func dateToAny(d pivot.Date) any {
	if !d.IsValid() {
		return nil
	}
	return d.String()
}

// DowntimeToMap converts a pivot.Downtime to a map for jq processing.
func DowntimeToMap(d pivot.Downtime) map[string]any {
	services := []any{}
	for _, s := range d.ServiceList() {
		services = append(services, map[string]any{
			"id":   s.ID,
			"name": s.Name,
		})
	}

	return map[string]any{
		"id":             int(d.ID),
		"resource_group": d.ResourceGroup.GroupName,
		"resource":       d.ResourceName,
		"fqdn":           d.ResourceFQDN,
		"start":          dateToAny(d.StartDate),
		"end":            dateToAny(d.EndDate),
		"start_text":     d.StartTime,
		"end_text":       d.EndTime,
		"services":       services,
		"description":    d.Description,
		"severity":       d.Severity,
		"class":          d.Class,
	}
}

func downtimesToAny(ds []pivot.Downtime) []any {
	xs := make([]any, len(ds))
	for i, d := range ds {
		xs[i] = DowntimeToMap(d)
	}
	return xs
}

// RowToMap converts a pivot.SiteRow to a map for jq processing.
func RowToMap(r pivot.SiteRow) map[string]any {
	return map[string]any{
		"site":    r.SiteName,
		"past":    downtimesToAny(r.Past),
		"current": downtimesToAny(r.Current),
		"future":  downtimesToAny(r.Future),
	}
}

// ResourceGroupToMap converts a topology.ResourceGroup to a map for jq processing.
func ResourceGroupToMap(g topology.ResourceGroup) map[string]any {
	resources := []any{}
	if g.Resources != nil {
		for _, r := range g.Resources.Resource.Items() {
			resources = append(resources, map[string]any{
				"id":     r.ID,
				"name":   r.Name,
				"fqdn":   r.FQDN,
				"active": strings.EqualFold(strings.TrimSpace(r.Active), "true"),
			})
		}
	}

	return map[string]any{
		"group":          g.GroupName,
		"group_id":       g.GroupID,
		"site":           g.Site.Name,
		"facility":       g.Facility.Name,
		"support_center": g.SupportCenter.Name,
		"production":     g.IsProduction(),
		"description":    g.GroupDescription,
		"resources":      resources,
	}
}
