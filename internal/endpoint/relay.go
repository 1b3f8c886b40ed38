package endpoint

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/macrat/topodown/internal/mcp"
	"github.com/macrat/topodown/internal/store"
)

// relayCacheControl lets clients and proxies reuse a relayed document for an hour.
const relayCacheControl = "public, max-age=3600"

func relayEndpoint(s Store, scope string, pick func(*store.Snapshot) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jq, err := mcp.ParseJQ(r.URL.Query().Get("jq"))
		if err != nil {
			http.Error(w, "invalid jq query: "+err.Error(), http.StatusBadRequest)
			return
		}

		snap := snapshotOrError(s, scope, w)
		if snap == nil {
			return
		}

		var output any = pick(snap)

		if r.URL.Query().Has("jq") {
			raw, err := json.Marshal(output)
			if err != nil {
				handleError(s, scope, err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			var input any
			if err := json.Unmarshal(raw, &input); err != nil {
				handleError(s, scope, err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			result, err := jq.Run(r.Context(), input)
			if err != nil {
				http.Error(w, "failed to run jq query: "+err.Error(), http.StatusBadRequest)
				return
			}
			output = result.Result
		}

		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.Header().Set("Cache-Control", relayCacheControl)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET")

		handleError(s, scope, json.NewEncoder(newChunkWriter(w)).Encode(output))
	}
}

// DowntimesRelayEndpoint serves the decoded downtime feed as JSON.
func DowntimesRelayEndpoint(s Store) http.HandlerFunc {
	return relayEndpoint(s, "api/downtimes", func(snap *store.Snapshot) any {
		return snap.Downtimes
	})
}

// ResourceGroupsRelayEndpoint serves the decoded resource group directory as JSON.
func ResourceGroupsRelayEndpoint(s Store) http.HandlerFunc {
	return relayEndpoint(s, "api/resource-groups", func(snap *store.Snapshot) any {
		return snap.ResourceGroups
	})
}
