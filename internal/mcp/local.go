package mcp

import (
	"context"
	"time"

	"github.com/macrat/topodown/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Refresher refreshes the snapshot on demand.
type Refresher interface {
	Refresh(ctx context.Context) (store.Snapshot, error)
}

// RefreshInput is the input for refresh_feeds tool.
type RefreshInput struct{}

// RefreshOutput is the output of refresh_feeds tool.
type RefreshOutput struct {
	RefreshID string `json:"refresh_id" jsonschema:"The ID of this refresh, which also appears in the event log."`
	FetchedAt string `json:"fetched_at" jsonschema:"When the feeds were fetched, in RFC 3339."`
	Sites     int    `json:"sites" jsonschema:"Number of sites that have at least one downtime."`
	Past      int    `json:"past" jsonschema:"Number of past downtimes."`
	Current   int    `json:"current" jsonschema:"Number of ongoing downtimes."`
	Future    int    `json:"future" jsonschema:"Number of upcoming downtimes."`
}

// Refresh runs a refresh and summarizes the new snapshot.
func Refresh(ctx context.Context, r Refresher) (RefreshOutput, error) {
	snap, err := r.Refresh(ctx)
	if err != nil {
		return RefreshOutput{}, err
	}

	past, current, future := snap.Count()

	return RefreshOutput{
		RefreshID: snap.RefreshID.String(),
		FetchedAt: snap.FetchedAt.Format(time.RFC3339),
		Sites:     len(snap.Rows),
		Past:      past,
		Current:   current,
		Future:    future,
	}, nil
}

// AddLocalTools adds the tools that change the state of topodown.
// They are only for the local MCP server.
func AddLocalTools(server *mcp.Server, r Refresher) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "refresh_feeds",
		Title:       "Refresh feeds",
		Description: "Fetch the downtime feed and the resource group directory from the OSG Topology registry now. The previous data is kept if the registry is unavailable.",
		Annotations: &mcp.ToolAnnotations{
			IdempotentHint: true,
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input RefreshInput) (*mcp.CallToolResult, RefreshOutput, error) {
		output, err := Refresh(ctx, r)
		return nil, output, err
	})
}
