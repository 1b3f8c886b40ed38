package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	mcputil "github.com/macrat/topodown/internal/mcp"
	"github.com/macrat/topodown/internal/schedule"
	"github.com/macrat/topodown/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

// MCPCommand represents the MCP subcommand.
type MCPCommand struct {
	OutStream io.Writer
	ErrStream io.Writer
}

var defaultMCPCommand = &MCPCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

const MCPHelp = `topodown mcp -- Start local MCP server on stdio

Usage: topodown mcp [OPTIONS...]

The server has the same read-only tools as the /mcp endpoint, and a
refresh_feeds tool that fetches the feeds on demand.

Options:
  -f, --log-file             Path to the event log file. (default disabled)
  -n, --name                 Instance name.
  -r, --refresh              Refresh interval or cron schedule. (default 1h0m0s)
      --downtimes-url        URL or path of the downtime feed.
      --resource-groups-url  URL or path of the resource group directory.
      --show-past            Days of finished downtimes to fetch. (default 45)
      --service              Comma separated service IDs to show. (default 1,157)
  -h, --help                 Show this help message and exit.
`

func (cmd *MCPCommand) Run(args []string) int {
	flags := pflag.NewFlagSet("topodown mcp", pflag.ContinueOnError)
	flags.Usage = func() {}

	logPath := flags.StringP("log-file", "f", "", "Path to log file")
	instanceName := flags.StringP("name", "n", "", "Instance name")
	help := flags.BoolP("help", "h", false, "Show this message and exit")

	var opts FeedOptions
	opts.AddFlags(flags)

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(cmd.ErrStream, err)
		usageHint(cmd.ErrStream, args[0]+" mcp")
		return 2
	}

	if *help {
		io.WriteString(cmd.OutStream, MCPHelp)
		return 0
	}

	if err := opts.Resolve(); err != nil {
		fmt.Fprintln(cmd.ErrStream, err)
		usageHint(cmd.ErrStream, args[0]+" mcp")
		return 2
	}

	if *logPath == "-" {
		*logPath = ""
	}

	// stdout is the MCP transport, so the console log is discarded.
	s, err := store.New(*instanceName, *logPath, io.Discard)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: failed to open log file: %s\n", err)
		return 1
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	refresher := opts.NewRefresher(s)
	server := mcputil.NewLocalServer(*instanceName, s, refresher)

	err = serveWithRefresh(ctx, opts.Schedule, refresher.MakeJob, func(ctx context.Context) error {
		return server.Run(ctx, &mcp.StdioTransport{})
	})
	if err != nil && ctx.Err() == nil {
		fmt.Fprintf(cmd.ErrStream, "error: MCP server error: %s\n", err)
		return 1
	}

	return 0
}

// serveWithRefresh runs serve while refreshing on sched.
// It returns after serve returned and every refresh has finished, so the store can be closed safely.
func serveWithRefresh(ctx context.Context, sched schedule.Schedule, makeJob func(context.Context) cron.Job, serve func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	job := makeJob(ctx)

	scheduler := cron.New()
	scheduler.Schedule(sched, job)

	var kick errgroup.Group
	if sched.NeedKickWhenStart() {
		kick.Go(func() error {
			job.Run()
			return nil
		})
	}
	scheduler.Start()

	err := serve(ctx)

	cancel()
	kick.Wait()
	<-scheduler.Stop().Done()

	return err
}
