package export

import (
	"fmt"
	"io"
	"time"

	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/topology"
	"github.com/xuri/excelize/v2"
)

const sheetName = "downtimes"

func excelPos(x, y uint) string {
	pos, err := excelize.CoordinatesToCellName(int(x+1), int(y+1))
	if err != nil {
		panic(err)
	}
	return pos
}

var categoryColors = map[topology.Category]string{
	topology.Past:    "C0C0C0",
	topology.Current: "FF2D00",
	topology.Future:  "DDA100",
}

// ToXlsx writes rows as an Excel workbook.
// Dates are written as date cells in the location of createdAt; invalid dates are left blank.
func ToXlsx(w io.Writer, rows []pivot.SiteRow, createdAt time.Time) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()
	xlsx.SetSheetName("Sheet1", sheetName)

	xlsx.SetAppProps(&excelize.AppProperties{
		Application: "topodown",
	})
	xlsx.SetDocProps(&excelize.DocProperties{
		Created:        createdAt.Format(time.RFC3339),
		Modified:       createdAt.Format(time.RFC3339),
		Creator:        "topodown",
		LastModifiedBy: "topodown",
		Title:          "OSG downtimes",
	})

	zone, _ := createdAt.Zone()
	for i, c := range Columns {
		name := c
		if c == "start" || c == "end" {
			name = fmt.Sprintf("%s (%s)", c, zone)
		}
		xlsx.SetCellStr(sheetName, excelPos(uint(i), 0), name)
	}

	datefmt := "yyyy-mm-dd hh:mm"

	styles := make(map[topology.Category][2]int)
	for c, color := range categoryColors {
		border := []excelize.Border{{Type: "bottom", Style: 1, Color: color}}
		text, err := xlsx.NewStyle(&excelize.Style{Border: border})
		if err != nil {
			return err
		}
		date, err := xlsx.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &datefmt})
		if err != nil {
			return err
		}
		styles[c] = [2]int{text, date}
	}

	for i, r := range Records(rows) {
		y := uint(i + 1)
		style := styles[r.Category]

		xlsx.SetRowStyle(sheetName, int(y+1), int(y+1), style[0])

		for x, v := range []string{r.Site, r.Category.String(), r.ResourceName, r.ResourceFQDN, r.Class, r.Severity} {
			xlsx.SetCellStr(sheetName, excelPos(uint(x), y), v)
		}

		for x, d := range map[uint]pivot.Date{6: r.StartDate, 7: r.EndDate} {
			if !d.IsValid() {
				continue
			}
			pos := excelPos(x, y)
			xlsx.SetCellValue(sheetName, pos, d.Time().In(createdAt.Location()))
			xlsx.SetCellStyle(sheetName, pos, pos, style[1])
		}

		xlsx.SetCellStr(sheetName, excelPos(8, y), r.Description)
	}

	if err := xlsx.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	xlsx.SetColWidth(sheetName, "A", "A", 20)
	xlsx.SetColWidth(sheetName, "C", "D", 25)
	xlsx.SetColWidth(sheetName, "F", "F", 30)
	xlsx.SetColWidth(sheetName, "G", "H", 18)
	xlsx.SetColWidth(sheetName, "I", "I", 40)

	if err := xlsx.AutoFilter(sheetName, "A1:"+excelPos(uint(len(Columns)-1), 0), nil); err != nil {
		return err
	}

	return xlsx.Write(w)
}
