package main

import (
	"fmt"
	"io"

	"github.com/macrat/topodown/internal/feed"
	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/schedule"
	"github.com/macrat/topodown/internal/topoerr"
	"github.com/spf13/pflag"
)

// FeedOptions is the set of flags that decides what to fetch and how often.
// It is shared by the server, the oneshot mode and the mcp subcommand.
type FeedOptions struct {
	RefreshSpec       string
	DowntimesURL      string
	ResourceGroupsURL string
	ShowPast          int
	ServiceIDs        []int

	Schedule  schedule.Schedule
	Source    feed.Source
	AllowList pivot.AllowList
}

func (o *FeedOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.RefreshSpec, "refresh", "r", schedule.DefaultSchedule.String(), "Refresh interval or cron schedule")
	flags.StringVar(&o.DowntimesURL, "downtimes-url", "", "URL or path of the downtime feed")
	flags.StringVar(&o.ResourceGroupsURL, "resource-groups-url", "", "URL or path of the resource group directory")
	flags.IntVar(&o.ShowPast, "show-past", feed.DefaultShowPast, "Days of finished downtimes to fetch")
	flags.IntSliceVar(&o.ServiceIDs, "service", pivot.DefaultAllowList.IDs(), "Service IDs to show")
}

// Resolve validates the flags and fills Schedule, Source and AllowList.
func (o *FeedOptions) Resolve() error {
	errs := &topoerr.ListBuilder{What: topoerr.ErrInvalidArgument}

	if s, err := schedule.Parse(o.RefreshSpec); err != nil {
		errs.Pushf("--refresh: %w", err)
	} else {
		o.Schedule = s
	}

	if o.ShowPast < 0 {
		errs.Pushf("--show-past: must be 0 or greater: %d", o.ShowPast)
	}

	if len(o.ServiceIDs) == 0 {
		errs.Pushf("--service: at least one service ID is required")
	}
	for _, id := range o.ServiceIDs {
		if id <= 0 {
			errs.Pushf("--service: invalid service ID: %d", id)
		}
	}

	if err := errs.Build(); err != nil {
		return err
	}

	o.Source = feed.DefaultSource(o.ShowPast)
	if o.DowntimesURL != "" {
		o.Source.DowntimesURL = o.DowntimesURL
	}
	if o.ResourceGroupsURL != "" {
		o.Source.ResourceGroupsURL = o.ResourceGroupsURL
	}

	o.AllowList = pivot.NewAllowList(o.ServiceIDs...)

	return nil
}

// NewRefresher makes a feed.Refresher that reports to s.
func (o FeedOptions) NewRefresher(s interface {
	feed.Store
	feed.Reporter
}) *feed.Refresher {
	return &feed.Refresher{
		Fetcher:   feed.NewFetcher(s),
		Source:    o.Source,
		AllowList: o.AllowList,
		Store:     s,
	}
}

func usageHint(w io.Writer, command string) {
	fmt.Fprintf(w, "\nPlease see `%s -h` for more information.\n", command)
}
