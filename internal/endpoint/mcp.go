package endpoint

import (
	"net/http"

	"github.com/macrat/topodown/internal/mcp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPHandler serves the read-only MCP tools over the streamable HTTP transport.
//
// Each request is handled independently, so no session state is kept between requests.
func MCPHandler(s Store) http.Handler {
	server := mcp.NewRemoteServer(s.Name(), s)
	getServer := func(*http.Request) *mcpsdk.Server {
		return server
	}

	return mcpsdk.NewStreamableHTTPHandler(getServer, &mcpsdk.StreamableHTTPOptions{
		Stateless:    true,
		JSONResponse: true,
	})
}
