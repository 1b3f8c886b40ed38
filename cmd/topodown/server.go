package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/macrat/topodown/internal/endpoint"
	"github.com/macrat/topodown/internal/meta"
	"github.com/macrat/topodown/internal/store"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

func (cmd *TopodownCommand) reportStartLog(s *store.Store, protocol, listen string) {
	s.Report(store.Event{
		Time:    time.Now(),
		Status:  store.StatusHealthy,
		Target:  "topodown:server",
		Message: "start topodown server",
		Extra: map[string]interface{}{
			"url":                 fmt.Sprintf("%s://%s", protocol, listen),
			"refresh":             cmd.Feed.Schedule.String(),
			"downtimes_url":       cmd.Feed.Source.DowntimesURL,
			"resource_groups_url": cmd.Feed.Source.ResourceGroupsURL,
			"services":            cmd.Feed.AllowList.String(),
			"version":             meta.String(),
		},
	})
}

func (cmd *TopodownCommand) RunServer(ctx context.Context, s *store.Store) (exitCode int) {
	startDebugLogger(ctx, s)

	protocol := "http"
	if cmd.CertPath != "" {
		protocol = "https"
		if _, err := os.Stat(cmd.CertPath); os.IsNotExist(err) {
			fmt.Fprintf(cmd.ErrStream, "error: certificate file does not exist: %s\n", cmd.CertPath)
			return 2
		}
		if _, err := os.Stat(cmd.KeyPath); os.IsNotExist(err) {
			fmt.Fprintf(cmd.ErrStream, "error: key file does not exist: %s\n", cmd.KeyPath)
			return 2
		}
	}

	scheduler := cron.New()

	listen := fmt.Sprintf("0.0.0.0:%d", cmd.ListenPort)
	cmd.reportStartLog(s, protocol, listen)

	srv := &http.Server{
		Addr:              listen,
		Handler:           endpoint.WithBasicAuth(endpoint.New(s), cmd.UserInfo),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	job := cmd.Feed.NewRefresher(s).MakeJob(ctx)
	if cmd.Feed.Schedule.NeedKickWhenStart() {
		g.Go(func() error {
			job.Run()
			return nil
		})
	}
	scheduler.Schedule(cmd.Feed.Schedule, job)
	scheduler.Start()

	g.Go(func() error {
		var err error
		if protocol == "https" {
			err = srv.ListenAndServeTLS(cmd.CertPath, cmd.KeyPath)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		<-scheduler.Stop().Done()
		return err
	})

	if err := g.Wait(); err != nil {
		s.ReportInternalError("endpoint", err.Error())
		return 1
	}
	return 0
}
