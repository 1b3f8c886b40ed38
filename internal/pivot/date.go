package pivot

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/macrat/topodown/internal/topoerr"
)

const (
	dateLayout = "Jan 2, 2006 3:04 PM"

	// The registry sometimes writes 24-hour clock with a meridiem, like "18:00 PM".
	dateLayout24 = "Jan 2, 2006 15:04 PM"
)

// zoneOffsets is the zone abbreviations that ParseDate accepts, in seconds east of UTC.
// The registry writes UTC; the US zones appear in hand-edited entries.
var zoneOffsets = map[string]int{
	"UTC": 0,
	"GMT": 0,
	"EST": -5 * 3600,
	"EDT": -4 * 3600,
	"CST": -6 * 3600,
	"CDT": -5 * 3600,
	"MST": -7 * 3600,
	"MDT": -6 * 3600,
	"PST": -8 * 3600,
	"PDT": -7 * 3600,
}

// InvalidDateText is the text of an invalid Date.
const InvalidDateText = "Invalid DateTime"

// Date is a timestamp of a downtime.
// The zero value is an invalid date.
type Date struct {
	t     time.Time
	valid bool
}

// DateOf makes a valid Date.
func DateOf(t time.Time) Date {
	return Date{t: t, valid: true}
}

// ParseDate parses a timestamp in the registry format, like "Jan 05, 2024 3:00 PM UTC".
//
// It returns an invalid Date and an error if the text is not in the format.
// The invalid Date is still usable for rendering and sorting.
func ParseDate(s string) (Date, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Date{}, topoerr.New(topoerr.ErrInvalidDate, nil, "%q", s)
	}

	zone := strings.ToUpper(fields[len(fields)-1])
	offset, ok := zoneOffsets[zone]
	if !ok {
		return Date{}, topoerr.New(topoerr.ErrInvalidDate, nil, "unknown time zone: %q", s)
	}
	loc := time.FixedZone(zone, offset)
	x := strings.Join(fields[:len(fields)-1], " ")

	if t, err := time.ParseInLocation(dateLayout, x, loc); err == nil {
		return DateOf(t.UTC()), nil
	}

	// "13:00 AM" contradicts itself, so only afternoon hours with PM are taken.
	meridiem := fields[len(fields)-2]
	if t, err := time.ParseInLocation(dateLayout24, x, loc); err == nil && t.Hour() >= 13 && strings.EqualFold(meridiem, "PM") {
		return DateOf(t.UTC()), nil
	}

	return Date{}, topoerr.New(topoerr.ErrInvalidDate, nil, "%q", s)
}

// IsValid reports whether the date was parsed successfully.
func (d Date) IsValid() bool {
	return d.valid
}

// Time returns the timestamp. It is the zero time if d is invalid.
func (d Date) Time() time.Time {
	return d.t
}

// Compare returns -1 if d is before x, 1 if d is after x, otherwise 0.
// Invalid dates are after all valid dates and equal to each other.
func (d Date) Compare(x Date) int {
	switch {
	case !d.valid && !x.valid:
		return 0
	case !d.valid:
		return 1
	case !x.valid:
		return -1
	default:
		return d.t.Compare(x.t)
	}
}

// Format formats the date, or returns InvalidDateText if d is invalid.
func (d Date) Format(layout string) string {
	if !d.valid {
		return InvalidDateText
	}
	return d.t.Format(layout)
}

func (d Date) String() string {
	return d.Format(time.RFC3339)
}

// MarshalJSON encodes a valid date as a RFC3339 string, and an invalid date as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.t.Format(time.RFC3339))
}
