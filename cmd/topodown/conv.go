package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/macrat/topodown/internal/export"
	"github.com/macrat/topodown/internal/feed"
	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/topology"
	"github.com/macrat/topodown/internal/view"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

type ConvCommand struct {
	InStream  io.Reader
	OutStream io.Writer
	ErrStream io.Writer
}

var defaultConvCommand = &ConvCommand{
	InStream:  os.Stdin,
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

const ConvHelp = `topodown conv -- Pivot downtime documents into other formats

Usage: topodown conv [OPTIONS...] DOWNTIMES RESOURCE_GROUPS

DOWNTIMES and RESOURCE_GROUPS are paths or URLs of the documents, in XML or
in the JSON of the /api endpoints. Use "-" to read one of them from stdin.

Options:
  -o, --output   Output file. (default stdout)

  -c, --csv      Convert to CSV. (default format)
  -j, --json     Convert to JSON.
  -t, --text     Convert to plain text table.
  -x, --xlsx     Convert to XLSX.

      --filter   Show only sites whose name includes this text.
      --sort     Sort key: site, past, current, future or none. (default site)
      --order    Sort order: asc or desc. (default asc)
      --service  Comma separated service IDs to show. (default 1,157)

  -h, --help     Show this help message and exit.
`

func (c ConvCommand) Run(args []string) int {
	flags := pflag.NewFlagSet("topodown conv", pflag.ContinueOnError)
	flags.Usage = func() {}

	outputPath := flags.StringP("output", "o", "", "Output file")

	toCsv := flags.BoolP("csv", "c", false, "Convert to CSV")
	toJson := flags.BoolP("json", "j", false, "Convert to JSON")
	toText := flags.BoolP("text", "t", false, "Convert to plain text")
	toXlsx := flags.BoolP("xlsx", "x", false, "Convert to XLSX")

	filter := flags.String("filter", "", "Site name filter")
	sortKey := flags.String("sort", "", "Sort key")
	sortOrder := flags.String("order", "", "Sort order")
	services := flags.IntSlice("service", pivot.DefaultAllowList.IDs(), "Service IDs to show")

	help := flags.BoolP("help", "h", false, "Show this message and exit")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(c.ErrStream, err)
		usageHint(c.ErrStream, args[0]+" "+args[1])
		return 2
	}

	if *help {
		fmt.Fprint(c.OutStream, ConvHelp)
		return 0
	}

	count := 0
	for _, b := range []bool{*toCsv, *toJson, *toText, *toXlsx} {
		if b {
			count++
		}
	}
	if count > 1 {
		fmt.Fprintln(c.ErrStream, "error: flags for output format can not use multiple in the same time.")
		return 2
	}

	sort, err := view.ParseSort(*sortKey, *sortOrder)
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: %s\n", err)
		return 2
	}

	inputs := flags.Args()[2:]
	if len(inputs) != 2 {
		fmt.Fprintln(c.ErrStream, "error: DOWNTIMES and RESOURCE_GROUPS are required.")
		usageHint(c.ErrStream, args[0]+" "+args[1])
		return 2
	}
	if inputs[0] == "-" && inputs[1] == "-" {
		fmt.Fprintln(c.ErrStream, "error: only one of the inputs can be read from stdin.")
		return 2
	}

	downtimes, groups, err := c.load(inputs[0], inputs[1])
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: %s\n", err)
		return 1
	}

	dir := pivot.NewDirectory(groups.ResourceSummary.Groups())
	rows := pivot.Pivot(downtimes.Downtimes, dir, pivot.NewAllowList(*services...))
	rows = view.Apply(rows, *filter, sort)

	output := c.OutStream
	if *outputPath != "" && *outputPath != "-" {
		f, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(c.ErrStream, "error: failed to open output file: %s\n", err)
			return 1
		}
		defer f.Close()
		output = f
	} else if *toXlsx && isTerminal(output) {
		fmt.Fprintln(c.ErrStream, "error: can not write xlsx format to stdout. please redirect or use -o option.")
		return 2
	}

	switch {
	case *toJson:
		err = c.toJson(output, rows)
	case *toText:
		err = export.ToText(output, rows)
	case *toXlsx:
		err = export.ToXlsx(output, rows, time.Now())
	default:
		err = export.ToCSV(output, rows)
	}
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: %s\n", err)
		return 1
	} else {
		return 0
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (c ConvCommand) load(downtimesPath, groupsPath string) (downtimes topology.DowntimesDocument, groups topology.ResourceSummaryDocument, err error) {
	ctx := context.Background()
	f := feed.NewFetcher(nil)

	if downtimesPath == "-" {
		downtimes, err = topology.DecodeDowntimes(c.InStream)
	} else {
		downtimes, err = f.FetchDowntimes(ctx, downtimesPath)
	}
	if err != nil {
		return
	}

	if groupsPath == "-" {
		groups, err = topology.DecodeResourceSummary(c.InStream)
	} else {
		groups, err = f.FetchResourceSummary(ctx, groupsPath)
	}
	return
}

func (c ConvCommand) toJson(output io.Writer, rows []pivot.SiteRow) error {
	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")

	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
