// Package feed fetches the documents of the OSG Topology registry and refreshes the snapshot.
package feed

import (
	"fmt"
)

const (
	// DefaultBaseURL is the OSG Topology registry.
	DefaultBaseURL = "https://topology.opensciencegrid.org"

	// DefaultShowPast is the number of days of finished downtimes that the registry includes.
	DefaultShowPast = 45
)

// Source is the pair of documents that make one snapshot.
// Each value is an http(s) URL, a file: URL or a plain file path.
type Source struct {
	DowntimesURL      string
	ResourceGroupsURL string
}

// DefaultSource returns the registry URLs.
func DefaultSource(showPast int) Source {
	return Source{
		DowntimesURL:      fmt.Sprintf("%s/rgdowntime/xml?downtime_attrs_showpast=%d", DefaultBaseURL, showPast),
		ResourceGroupsURL: DefaultBaseURL + "/rgsummary/xml",
	}
}
