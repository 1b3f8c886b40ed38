package export

import (
	"encoding/csv"
	"io"

	"github.com/macrat/topodown/internal/pivot"
)

// ToCSV writes rows as CSV with a header line.
func ToCSV(w io.Writer, rows []pivot.SiteRow) error {
	c := csv.NewWriter(w)

	if err := c.Write(Columns); err != nil {
		return err
	}

	for _, r := range Records(rows) {
		err := c.Write([]string{
			r.Site,
			r.Category.String(),
			r.ResourceName,
			r.ResourceFQDN,
			r.Class,
			r.Severity,
			formatDate(r.StartDate),
			formatDate(r.EndDate),
			r.Description,
		})
		if err != nil {
			return err
		}
	}

	c.Flush()

	return c.Error()
}
