// Package export writes the pivoted table in flat formats.
package export

import (
	"slices"
	"time"

	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/topology"
)

// Columns is the header of the flat formats.
var Columns = []string{"site", "category", "resource", "fqdn", "class", "severity", "start", "end", "description"}

// Record is a downtime with its site and category.
type Record struct {
	Site     string
	Category topology.Category
	pivot.Downtime
}

// Records flattens rows into records.
// Rows keep their order, and categories are past, current and future.
// Records in a category are ordered by start date, with invalid dates last.
func Records(rows []pivot.SiteRow) []Record {
	var rs []Record

	for _, row := range rows {
		for _, c := range topology.Categories {
			ds := slices.Clone(row.Downtimes(c))
			slices.SortStableFunc(ds, func(a, b pivot.Downtime) int {
				return a.StartDate.Compare(b.StartDate)
			})

			for _, d := range ds {
				rs = append(rs, Record{
					Site:     row.SiteName,
					Category: c,
					Downtime: d,
				})
			}
		}
	}

	return rs
}

func formatDate(d pivot.Date) string {
	if !d.IsValid() {
		return ""
	}
	return d.Time().Format(time.RFC3339)
}
