package endpoint

import (
	_ "embed"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/macrat/topodown/internal/export"
	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/topology"
	"github.com/macrat/topodown/internal/view"
)

// cellLimit is the number of downtimes shown in a cell before the rest is folded.
const cellLimit = 5

//go:embed templates/base.html
var baseHTMLTemplateStr string

var baseHTMLTemplate = template.Must(template.New("base.html").Funcs(templateFuncs).Parse(baseHTMLTemplateStr))

func loadHTMLTemplate(s string) *template.Template {
	return template.Must(
		template.Must(baseHTMLTemplate.Clone()).Parse(s),
	)
}

var (
	templateFuncs = map[string]interface{}{
		"categories": func() []topology.Category {
			return topology.Categories
		},
		"category_title": func(c topology.Category) string {
			switch c {
			case topology.Past:
				return "Past Downtimes"
			case topology.Current:
				return "Current Downtimes"
			case topology.Future:
				return "Upcoming Downtimes"
			default:
				return c.String()
			}
		},
		"category_key": view.KeyOf,
		"site_key": func() view.Key {
			return view.KeySite
		},
		"sort_link": func(s view.Sort, k view.Key, filter string) string {
			return "?" + s.Toggle(k).Query(filter).Encode()
		},
		"sort_mark": func(s view.Sort, k view.Key) string {
			switch {
			case !s.IsActive(k):
				return ""
			case s.Order == view.Descending:
				return "▼"
			default:
				return "▲"
			}
		},
		"aria_sort": func(s view.Sort, k view.Key) string {
			switch {
			case !s.IsActive(k):
				return "none"
			case s.Order == view.Descending:
				return "descending"
			default:
				return "ascending"
			}
		},
		"link": func(path string, s view.Sort, filter string) string {
			return path + "?" + s.Query(filter).Encode()
		},
		"head": func(ds []pivot.Downtime) []pivot.Downtime {
			if len(ds) > cellLimit {
				return ds[:cellLimit]
			}
			return ds
		},
		"rest": func(ds []pivot.Downtime) []pivot.Downtime {
			if len(ds) > cellLimit {
				return ds[cellLimit:]
			}
			return nil
		},
		"date": func(d pivot.Date) string {
			return d.Format(export.DateLayout)
		},
		"relative": func(d pivot.Date) string {
			if !d.IsValid() {
				return ""
			}
			return humanize.Time(d.Time())
		},
		"relative_time": humanize.Time,
		"time2str": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
	}
)
