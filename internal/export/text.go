package export

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/topology"
)

// DateLayout is the date format of the text table and the page.
const DateLayout = "2006-01-02"

// ToText writes rows as an aligned plain-text table.
// Sites without any downtime in the rows are listed with a dash.
func ToText(w io.Writer, rows []pivot.SiteRow) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "SITE\tPAST\tCURRENT\tUPCOMING\tRESOURCE\tSTART\tEND")

	for _, row := range rows {
		counts := fmt.Sprintf("%s\t%d\t%d\t%d", row.SiteName, row.Count(topology.Past), row.Count(topology.Current), row.Count(topology.Future))

		rs := Records([]pivot.SiteRow{row})
		if len(rs) == 0 {
			fmt.Fprintf(tw, "%s\t-\t-\t-\n", counts)
			continue
		}

		for i, r := range rs {
			prefix := "\t\t\t"
			if i == 0 {
				prefix = counts
			}
			fmt.Fprintf(
				tw,
				"%s\t%s\t%s\t%s\n",
				prefix,
				label(r),
				r.StartDate.Format(DateLayout),
				r.EndDate.Format(DateLayout),
			)
		}
	}

	return tw.Flush()
}

func label(r Record) string {
	return fmt.Sprintf("[%s] %s", r.Category, r.ResourceName)
}
