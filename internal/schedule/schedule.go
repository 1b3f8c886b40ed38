// Package schedule parses the refresh schedule of the upstream feeds.
package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	// DefaultSchedule refreshes the feeds every hour.
	DefaultSchedule = Schedule(IntervalSchedule{time.Hour})

	// MinInterval is the shortest interval that ParseInterval accepts.
	// The registry is a shared service, so refreshing too often is refused.
	MinInterval = time.Minute
)

// Schedule is a refresh schedule for cron.
type Schedule interface {
	cron.Schedule
	fmt.Stringer

	// NeedKickWhenStart reports whether the first run is at start up.
	NeedKickWhenStart() bool
}

// Parse parses an interval like "30m" or a cron spec like "0 * * * ?" or "@hourly".
// A spec that looks like a duration is always an interval, so "10s" reports that it is too short.
func Parse(spec string) (Schedule, error) {
	if _, err := time.ParseDuration(strings.TrimSpace(spec)); err == nil {
		s, err := ParseInterval(spec)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	return ParseCron(spec)
}

// IntervalSchedule runs at a fixed interval.
type IntervalSchedule struct {
	Interval time.Duration
}

func ParseInterval(spec string) (IntervalSchedule, error) {
	d, err := time.ParseDuration(strings.TrimSpace(spec))
	if err != nil {
		return IntervalSchedule{}, err
	}
	if d < MinInterval {
		return IntervalSchedule{}, fmt.Errorf("refresh interval must be %s or longer: %q", MinInterval, spec)
	}
	return IntervalSchedule{d}, nil
}

func (s IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

func (s IntervalSchedule) String() string {
	return s.Interval.String()
}

func (s IntervalSchedule) NeedKickWhenStart() bool {
	return true
}

// CronSchedule runs at the times of a cron spec.
type CronSchedule struct {
	spec     string
	schedule cron.Schedule
}

var fieldDelimiter = regexp.MustCompile("[ \t]+")

func ParseCron(spec string) (CronSchedule, error) {
	switch spec {
	case "@yearly", "@annually":
		spec = "0 0 1 1 ?"
	case "@monthly":
		spec = "0 0 1 * ?"
	case "@weekly":
		spec = "0 0 * * 0"
	case "@daily":
		spec = "0 0 * * ?"
	case "@hourly":
		spec = "0 * * * ?"
	default:
		ss := fieldDelimiter.Split(strings.TrimSpace(spec), -1)
		if len(ss) == 4 {
			ss = append(ss, "?")
		}
		spec = strings.Join(ss, " ")
	}

	s, err := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional).Parse(spec)
	if err != nil {
		return CronSchedule{}, err
	}

	return CronSchedule{
		spec:     spec,
		schedule: s,
	}, nil
}

func (s CronSchedule) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

func (s CronSchedule) String() string {
	return s.spec
}

// NeedKickWhenStart returns true because the table is empty until the first refresh.
func (s CronSchedule) NeedKickWhenStart() bool {
	return true
}
