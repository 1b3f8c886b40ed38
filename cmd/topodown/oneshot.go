package main

import (
	"context"
	"fmt"

	"github.com/macrat/topodown/internal/export"
	"github.com/macrat/topodown/internal/store"
	"github.com/macrat/topodown/internal/view"
)

// RunOneshot refreshes the feeds once and prints the table to OutStream.
// It returns 1 if the feeds are unavailable.
func (cmd *TopodownCommand) RunOneshot(ctx context.Context, s *store.Store) (exitCode int) {
	snap, err := cmd.Feed.NewRefresher(s).Refresh(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: %s\n", err)
		return 1
	}

	rows := view.Apply(snap.Rows, "", view.DefaultSort)
	if err := export.ToText(cmd.OutStream, rows); err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: failed to write table: %s\n", err)
		return 1
	}

	return 0
}
