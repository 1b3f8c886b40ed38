// Package view makes the rows for displaying from the pivoted table.
package view

import (
	"sort"
	"strings"

	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/topology"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Apply filters rows by site name and sorts them.
//
// The filter is a case-insensitive substring of the site name; an empty filter keeps all rows.
// Rows are first sorted by site name, then stable sorted by the key of s.
// Rows with the same count keep the site name order.
// The rows argument is not modified.
func Apply(rows []pivot.SiteRow, filter string, s Sort) []pivot.SiteRow {
	result := Filter(rows, filter)

	col := collate.New(language.Und)
	byName := func(i, j int) int {
		return col.CompareString(result[i].SiteName, result[j].SiteName)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return byName(i, j) < 0
	})

	var cmp func(i, j int) int
	switch s.Key {
	case KeySite:
		cmp = byName
	case KeyPast:
		cmp = byCount(result, topology.Past)
	case KeyCurrent:
		cmp = byCount(result, topology.Current)
	case KeyFuture:
		cmp = byCount(result, topology.Future)
	default:
		return result
	}

	sort.SliceStable(result, func(i, j int) bool {
		if s.Order == Descending {
			return cmp(i, j) > 0
		}
		return cmp(i, j) < 0
	})

	return result
}

func byCount(rows []pivot.SiteRow, c topology.Category) func(i, j int) int {
	return func(i, j int) int {
		return rows[i].Count(c) - rows[j].Count(c)
	}
}

// Filter returns a new slice of rows whose site name includes filter, ignoring case.
func Filter(rows []pivot.SiteRow, filter string) []pivot.SiteRow {
	fold := cases.Fold()
	needle := fold.String(filter)

	result := make([]pivot.SiteRow, 0, len(rows))
	for _, r := range rows {
		if needle == "" || strings.Contains(fold.String(r.SiteName), needle) {
			result = append(result, r)
		}
	}
	return result
}
