// Package pivot reshapes the downtime feed into a table keyed by site.
//
// Everything in this package is a pure function of its arguments.
// Nothing here does I/O or keeps state between calls.
package pivot

import (
	"github.com/macrat/topodown/internal/topology"
)

// Downtime is a topology.Downtime with parsed dates.
type Downtime struct {
	topology.Downtime

	StartDate Date
	EndDate   Date
}

// ParseDowntime parses the dates of d.
// Unparsable dates become invalid Dates; ParseDowntime never fails.
func ParseDowntime(d topology.Downtime) Downtime {
	start, _ := ParseDate(d.StartTime)
	end, _ := ParseDate(d.EndTime)

	return Downtime{
		Downtime:  d,
		StartDate: start,
		EndDate:   end,
	}
}

// SiteRow is a row of the pivoted table.
type SiteRow struct {
	SiteName string

	Past    []Downtime
	Current []Downtime
	Future  []Downtime
}

// Downtimes returns the list of the category.
func (r SiteRow) Downtimes(c topology.Category) []Downtime {
	switch c {
	case topology.Past:
		return r.Past
	case topology.Current:
		return r.Current
	case topology.Future:
		return r.Future
	default:
		return nil
	}
}

// Count returns the number of downtimes in the category.
func (r SiteRow) Count(c topology.Category) int {
	return len(r.Downtimes(c))
}

func (r *SiteRow) push(c topology.Category, d Downtime) {
	switch c {
	case topology.Past:
		r.Past = append(r.Past, d)
	case topology.Current:
		r.Current = append(r.Current, d)
	case topology.Future:
		r.Future = append(r.Future, d)
	}
}

// pivotOrder is the order that Pivot reads the categories in.
// It decides which site comes first when a site appears in several categories.
var pivotOrder = []topology.Category{topology.Current, topology.Past, topology.Future}

// Pivot folds the downtime feed into rows keyed by site name.
//
// Downtimes without an allowed service are dropped.
// Rows are in the order that their site was first seen, and downtimes in a row keep the feed order.
// Duplicated downtimes are kept.
func Pivot(feed topology.Downtimes, dir *Directory, allow AllowList) []SiteRow {
	rows := []SiteRow{}
	index := make(map[string]int)

	for _, c := range pivotOrder {
		for _, d := range feed.Category(c) {
			if !allow.Accepts(d) {
				continue
			}

			site := dir.Resolve(d.ResourceGroup.GroupName)

			i, ok := index[site]
			if !ok {
				i = len(rows)
				index[site] = i
				rows = append(rows, SiteRow{
					SiteName: site,
					Past:     []Downtime{},
					Current:  []Downtime{},
					Future:   []Downtime{},
				})
			}

			rows[i].push(c, ParseDowntime(d))
		}
	}

	return rows
}
