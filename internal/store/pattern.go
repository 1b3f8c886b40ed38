package store

import (
	"strings"
	"time"
)

type pathFragment interface {
	Build(t time.Time) string
}

type constFragment string

func (s constFragment) Build(_ time.Time) string {
	return string(s)
}

// timeFragment is a placeholder like %Y, formatted with a time.Format layout.
type timeFragment string

func (f timeFragment) Build(t time.Time) string {
	return t.Format(string(f))
}

var placeholders = map[byte]timeFragment{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'M': "04",
}

// Pattern is a log file path that can contain date placeholders.
//
// %Y, %y, %m, %d, %H and %M are replaced with the time of the event in UTC, and %% is replaced with %.
// Other sequences are kept as is.
type Pattern struct {
	pattern   string
	fragments []pathFragment
}

func ParsePattern(s string) Pattern {
	p := Pattern{
		pattern: s,
	}

	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			p.fragments = append(p.fragments, constFragment(buf.String()))
			buf.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+1 >= len(s) {
			buf.WriteByte(s[i])
			continue
		}

		i++
		if s[i] == '%' {
			buf.WriteByte('%')
		} else if f, ok := placeholders[s[i]]; ok {
			flush()
			p.fragments = append(p.fragments, f)
		} else {
			buf.WriteByte('%')
			buf.WriteByte(s[i])
		}
	}
	flush()

	return p
}

// Build makes the path for an event at t.
func (p Pattern) Build(t time.Time) string {
	t = t.UTC()

	ss := make([]string, len(p.fragments))
	for i, f := range p.fragments {
		ss[i] = f.Build(t)
	}
	return strings.Join(ss, "")
}

// IsEmpty reports whether the pattern disables the log file.
func (p Pattern) IsEmpty() bool {
	return p.pattern == ""
}

func (p Pattern) String() string {
	return p.pattern
}
