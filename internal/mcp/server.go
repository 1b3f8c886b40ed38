package mcp

import (
	"github.com/macrat/topodown/internal/meta"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// newServer creates a new MCP server with the given configuration.
func newServer(instanceName string, store Store, refresher Refresher) *mcp.Server {
	title := "topodown"
	instructions := "topodown shows planned and unplanned downtimes of OSG sites, taken from the OSG Topology registry. The data can be large, so it is recommended to narrow it with the filter parameter and jq queries instead of fetching all data at once."

	if refresher != nil {
		title = "topodown Local MCP"
		instructions += " This local server can also refresh the data from the registry."
	}

	if instanceName != "" {
		title = title + " (" + instanceName + ")"
		instructions = instructions + " This topodown instance's name is \"" + instanceName + "\"."
	}

	impl := &mcp.Implementation{
		Name:    "topodown",
		Version: meta.Version,
		Title:   title,
	}

	opts := &mcp.ServerOptions{
		Instructions: instructions,
	}

	server := mcp.NewServer(impl, opts)

	AddReadOnlyTools(server, store)

	if refresher != nil {
		AddLocalTools(server, refresher)
	}

	return server
}

// NewRemoteServer creates an MCP server for remote access (read-only tools only).
func NewRemoteServer(instanceName string, store Store) *mcp.Server {
	return newServer(instanceName, store, nil)
}

// NewLocalServer creates an MCP server for local access (includes refresh_feeds tool).
func NewLocalServer(instanceName string, store Store, refresher Refresher) *mcp.Server {
	return newServer(instanceName, store, refresher)
}
