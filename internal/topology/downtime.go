package topology

import (
	"bytes"
	"encoding/xml"

	"github.com/goccy/go-json"
)

// Category is a section of the downtime feed.
type Category int

const (
	Past Category = iota
	Current
	Future
)

// Categories is the list of all categories.
var Categories = []Category{Past, Current, Future}

func (c Category) String() string {
	switch c {
	case Past:
		return "past"
	case Current:
		return "current"
	case Future:
		return "future"
	default:
		return "unknown"
	}
}

// Service is a kind of grid service that a downtime affects.
type Service struct {
	ID          int
	Name        string
	Description string
}

// Services is the <Services> element.
type Services struct {
	Service OneOrMany[Service]
}

func (s *Services) UnmarshalJSON(data []byte) error {
	if isEmptyJSON(bytes.TrimSpace(data)) {
		*s = Services{}
		return nil
	}
	type plain Services
	return json.Unmarshal(data, (*plain)(s))
}

// ResourceGroupRef is the resource group that owns a downtime.
type ResourceGroupRef struct {
	GroupName string
	GroupID   int
}

// Downtime is a maintenance window of a resource.
type Downtime struct {
	ID            int64
	ResourceID    int64
	ResourceGroup ResourceGroupRef
	ResourceName  string
	ResourceFQDN  string
	StartTime     string
	EndTime       string
	CreatedTime   string `json:",omitempty"`
	UpdateTime    string `json:",omitempty"`
	Services      Services
	Description   string
	Severity      string
	Class         string
}

// ServiceList returns the services of the downtime as a slice.
func (d Downtime) ServiceList() []Service {
	return d.Services.Service.Items()
}

// DowntimeList is one of <CurrentDowntimes>, <FutureDowntimes> or <PastDowntimes>.
type DowntimeList struct {
	Downtime OneOrMany[Downtime]
}

func (l *DowntimeList) UnmarshalJSON(data []byte) error {
	if isEmptyJSON(bytes.TrimSpace(data)) {
		*l = DowntimeList{}
		return nil
	}
	type plain DowntimeList
	return json.Unmarshal(data, (*plain)(l))
}

// Items returns the downtimes in the list.
// A nil list has no downtimes.
func (l *DowntimeList) Items() []Downtime {
	if l == nil {
		return []Downtime{}
	}
	return l.Downtime.Items()
}

// Downtimes is the root element of the downtime feed.
// Each category may be missing.
type Downtimes struct {
	XMLName xml.Name `xml:"Downtimes" json:"-"`

	PastDowntimes    *DowntimeList `json:",omitempty"`
	CurrentDowntimes *DowntimeList `json:",omitempty"`
	FutureDowntimes  *DowntimeList `json:",omitempty"`
}

// Category returns the downtimes of a category in the feed order.
func (d Downtimes) Category(c Category) []Downtime {
	switch c {
	case Past:
		return d.PastDowntimes.Items()
	case Current:
		return d.CurrentDowntimes.Items()
	case Future:
		return d.FutureDowntimes.Items()
	default:
		return []Downtime{}
	}
}

// DowntimesDocument is a decoded downtime feed.
type DowntimesDocument struct {
	Downtimes Downtimes
}
