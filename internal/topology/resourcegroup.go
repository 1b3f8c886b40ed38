package topology

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/goccy/go-json"
)

// NamedRef is a reference to another registry object, like <Site> or <Facility>.
type NamedRef struct {
	ID   int
	Name string
}

// Resource is a resource in a resource group.
type Resource struct {
	ID          int
	Name        string
	Active      string
	Disable     string
	FQDN        string
	Description string
	Services    Services
}

// Resources is the <Resources> element.
type Resources struct {
	Resource OneOrMany[Resource]
}

func (r *Resources) UnmarshalJSON(data []byte) error {
	if isEmptyJSON(bytes.TrimSpace(data)) {
		*r = Resources{}
		return nil
	}
	type plain Resources
	return json.Unmarshal(data, (*plain)(r))
}

// ResourceGroup is an entry of the resource group directory.
type ResourceGroup struct {
	GroupName        string
	GroupID          int
	Facility         NamedRef
	Site             NamedRef
	SupportCenter    NamedRef
	Production       string
	GroupDescription string
	Resources        *Resources `json:",omitempty"`
}

// IsProduction reports whether the group is marked as production.
func (g ResourceGroup) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(g.Production), "true")
}

// ResourceSummary is the root element of the resource group directory.
type ResourceSummary struct {
	XMLName xml.Name `xml:"ResourceSummary" json:"-"`

	ResourceGroup OneOrMany[ResourceGroup]
}

// Groups returns the resource groups in the document order.
func (s ResourceSummary) Groups() []ResourceGroup {
	return s.ResourceGroup.Items()
}

// ResourceSummaryDocument is a decoded resource group directory.
type ResourceSummaryDocument struct {
	ResourceSummary ResourceSummary
}
