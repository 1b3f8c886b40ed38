package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/template"

	"github.com/macrat/topodown/internal/feed"
	"github.com/macrat/topodown/internal/meta"
	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/schedule"
	"github.com/macrat/topodown/internal/store"
	"github.com/spf13/pflag"
)

type TopodownCommand struct {
	OutStream io.Writer
	ErrStream io.Writer

	ListenPort   int
	StorePath    string
	InstanceName string
	OneshotMode  bool
	UserInfo     string
	CertPath     string
	KeyPath      string
	ShowVersion  bool
	ShowHelp     bool

	Feed FeedOptions
}

var defaultTopodownCommand = &TopodownCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

//go:embed help.txt
var helpText string

func (cmd *TopodownCommand) PrintUsage(detail bool) {
	tmpl := template.Must(template.New("help.txt").Parse(helpText))
	tmpl.Execute(cmd.ErrStream, map[string]interface{}{
		"Version":         meta.Version,
		"HTTPRedirectMax": feed.HTTP_REDIRECT_MAX,
		"DefaultSchedule": schedule.DefaultSchedule,
		"MinInterval":     schedule.MinInterval,
		"DefaultShowPast": feed.DefaultShowPast,
		"DefaultServices": pivot.DefaultAllowList.String(),
		"Short":           !detail,
	})
}

// serverOnlyOptions are the options that have no effect in the oneshot mode.
var serverOnlyOptions = []struct {
	Flags []string
	Label string
}{
	{[]string{"port"}, "port option"},
	{[]string{"user"}, "user option"},
	{[]string{"ssl-cert", "ssl-key"}, "ssl cert and key options"},
	{[]string{"refresh"}, "refresh option"},
}

func (cmd *TopodownCommand) ParseArgs(args []string) (exitCode int) {
	flags := pflag.NewFlagSet("topodown", pflag.ContinueOnError)
	flags.Usage = func() {}

	flags.IntVarP(&cmd.ListenPort, "port", "p", 9000, "HTTP listen port")
	flags.StringVarP(&cmd.StorePath, "log-file", "f", "", "Path to log file")
	flags.StringVarP(&cmd.InstanceName, "name", "n", "", "Instance name")
	flags.BoolVarP(&cmd.OneshotMode, "oneshot", "1", false, "Fetch the feeds only once and exit")
	flags.StringVarP(&cmd.UserInfo, "user", "u", "", "Username and password for HTTP endpoint")
	flags.StringVarP(&cmd.CertPath, "ssl-cert", "c", "", "HTTPS certificate file")
	flags.StringVarP(&cmd.KeyPath, "ssl-key", "k", "", "HTTPS key file")
	flags.BoolVarP(&cmd.ShowVersion, "version", "v", false, "Show version")
	flags.BoolVarP(&cmd.ShowHelp, "help", "h", false, "Show help message")
	cmd.Feed.AddFlags(flags)

	if err := flags.Parse(args[1:]); err != nil {
		fmt.Fprintln(cmd.ErrStream, err)
		usageHint(cmd.ErrStream, args[0])
		return 2
	}

	if cmd.ShowVersion || cmd.ShowHelp {
		return 0
	}

	if flags.NArg() > 0 {
		fmt.Fprintf(cmd.ErrStream, "invalid argument: unexpected argument: %s\n", flags.Arg(0))
		usageHint(cmd.ErrStream, args[0])
		return 2
	}

	if cmd.OneshotMode {
		for _, o := range serverOnlyOptions {
			for _, name := range o.Flags {
				if flags.Changed(name) {
					fmt.Fprintf(cmd.ErrStream, "warning: %s will ignored in the oneshot mode.\n", o.Label)
					break
				}
			}
		}
	} else {
		if cmd.CertPath != "" && cmd.KeyPath == "" || cmd.CertPath == "" && cmd.KeyPath != "" {
			fmt.Fprintln(cmd.ErrStream, "invalid argument: the both of -c and -k option is required if you want to use HTTPS.")
			return 2
		}
	}

	if cmd.StorePath == "-" {
		cmd.StorePath = ""
	}

	if err := cmd.Feed.Resolve(); err != nil {
		fmt.Fprintln(cmd.ErrStream, err)
		usageHint(cmd.ErrStream, args[0])
		return 2
	}

	return 0
}

func (cmd *TopodownCommand) PrintVersion() {
	fmt.Fprintf(cmd.OutStream, "topodown version %s\n", meta.String())
}

func (cmd *TopodownCommand) Run(args []string) (exitCode int) {
	if code := cmd.ParseArgs(args); code != 0 {
		return code
	}

	if cmd.ShowVersion {
		cmd.PrintVersion()
		return 0
	}

	if cmd.ShowHelp {
		cmd.PrintUsage(true)
		return 0
	}

	// The table of the oneshot mode goes to OutStream, so events go to ErrStream.
	console := cmd.OutStream
	if cmd.OneshotMode {
		console = cmd.ErrStream
	}

	s, err := store.New(cmd.InstanceName, cmd.StorePath, console)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: failed to open log file: %s\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.OneshotMode {
		exitCode = cmd.RunOneshot(ctx, s)
	} else {
		exitCode = cmd.RunServer(ctx, s)
	}

	s.Close()

	healthy, _ := s.Errors()
	if exitCode == 0 && !healthy {
		return 1
	}

	return exitCode
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "oneshot":
			os.Args[1] = "-1"
			os.Exit(defaultTopodownCommand.Run(os.Args))
		case "conv", "convert":
			os.Exit(defaultConvCommand.Run(os.Args))
		case "mcp":
			os.Exit(defaultMCPCommand.Run(os.Args))
		}
	}

	os.Exit(defaultTopodownCommand.Run(os.Args))
}
