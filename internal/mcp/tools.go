package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/macrat/topodown/internal/topoerr"
	"github.com/macrat/topodown/internal/view"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DowntimesInput is the input for query_downtimes tool.
type DowntimesInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"Case-insensitive substring of the site name. If omitted, all sites are returned."`
	Sort   string `json:"sort,omitempty" jsonschema:"Sort key. One of 'site', 'past', 'current', 'future', or 'none'. Counts are sorted by the number of downtimes. The default is 'site'."`
	Order  string `json:"order,omitempty" jsonschema:"Sort order. 'asc' or 'desc'. The default is 'asc'."`
	JQ     string `json:"jq,omitempty" jsonschema:"A jq query string to filter and/or aggregate downtimes. Query receives an array of sites. Each object is like '{\"site\": \"...\", \"past\": [...], \"current\": [...], \"future\": [...]}', and each downtime is like '{\"resource\": \"...\", \"resource_group\": \"...\", \"fqdn\": \"...\", \"start\": \"{RFC 3339 or null}\", \"end\": \"{RFC 3339 or null}\", \"services\": [{\"id\": 1, \"name\": \"CE\"}], \"description\": \"...\", \"severity\": \"...\", \"class\": \"...\"}'. For example, '.[] | select(.current | length > 0) | {site, resources: [.current[].resource]}' to list sites in downtime now. Extra functions: 'has_service(1)' or 'has_service(\"CE\")' tests a downtime's services, 'duration_hours' gives the length of a downtime, and 'parse_topology_date' converts registry date text to RFC 3339."`
}

func snapshotError(s Store, err error) error {
	if errors.Is(err, topoerr.ErrFeedUnavailable) {
		return fmt.Errorf("downtime feed is not available yet: %w", err)
	}
	s.ReportInternalError("mcp", err.Error())
	return errors.New("internal server error")
}

// FetchDowntimesByJQ fetches the site rows from store and applies jq query.
func FetchDowntimesByJQ(ctx context.Context, s Store, input DowntimesInput) (Output, error) {
	sort, err := view.ParseSort(input.Sort, input.Order)
	if err != nil {
		return Output{}, err
	}

	jq, err := ParseJQ(input.JQ)
	if err != nil {
		return Output{}, fmt.Errorf("failed to parse jq query: %w", err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		return Output{}, snapshotError(s, err)
	}

	rows := view.Apply(snap.Rows, input.Filter, sort)

	sites := make([]any, len(rows))
	for i, r := range rows {
		sites[i] = RowToMap(r)
	}

	return jq.Run(ctx, sites)
}

// ResourceGroupsInput is the input for query_resource_groups tool.
type ResourceGroupsInput struct {
	JQ string `json:"jq,omitempty" jsonschema:"A jq query string to filter the resource group directory. Query receives an array. Each object is like '{\"group\": \"...\", \"group_id\": 1, \"site\": \"...\", \"facility\": \"...\", \"support_center\": \"...\", \"production\": true, \"description\": \"...\", \"resources\": [{\"id\": 1, \"name\": \"...\", \"fqdn\": \"...\", \"active\": true}]}'. For example, '.[] | select(.site == \"UCSD\") | .group' to list groups of a site."`
}

// FetchResourceGroupsByJQ fetches the resource group directory from store and applies jq query.
func FetchResourceGroupsByJQ(ctx context.Context, s Store, input ResourceGroupsInput) (Output, error) {
	jq, err := ParseJQ(input.JQ)
	if err != nil {
		return Output{}, fmt.Errorf("failed to parse jq query: %w", err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		return Output{}, snapshotError(s, err)
	}

	groups := snap.ResourceGroups.ResourceSummary.Groups()

	xs := make([]any, len(groups))
	for i, g := range groups {
		xs[i] = ResourceGroupToMap(g)
	}

	return jq.Run(ctx, xs)
}

// AddReadOnlyTools adds the read-only query tools to the MCP server.
// These tools are: query_downtimes, query_resource_groups.
func AddReadOnlyTools(server *mcp.Server, s Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_downtimes",
		Title:       "Query downtimes",
		Description: "Fetch past, current and upcoming downtimes of the OSG sites. Only downtimes of Compute Element and Execution Endpoint services are included by default.",
		Annotations: &mcp.ToolAnnotations{
			IdempotentHint: true,
			ReadOnlyHint:   true,
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input DowntimesInput) (*mcp.CallToolResult, Output, error) {
		output, err := FetchDowntimesByJQ(ctx, s, input)
		return nil, output, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_resource_groups",
		Title:       "Query resource groups",
		Description: "Fetch the resource group directory of the OSG Topology registry, which maps resource groups to sites.",
		Annotations: &mcp.ToolAnnotations{
			IdempotentHint: true,
			ReadOnlyHint:   true,
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ResourceGroupsInput) (*mcp.CallToolResult, Output, error) {
		output, err := FetchResourceGroupsByJQ(ctx, s, input)
		return nil, output, err
	})
}
