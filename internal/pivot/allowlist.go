package pivot

import (
	"sort"
	"strconv"
	"strings"

	"github.com/macrat/topodown/internal/topology"
)

const (
	// ServiceCE is the service ID of the compute entrypoint (CE).
	ServiceCE = 1

	// ServiceEP is the service ID of the execution point (EP).
	ServiceEP = 157
)

// DefaultAllowList accepts downtimes of CEs and EPs.
var DefaultAllowList = NewAllowList(ServiceCE, ServiceEP)

// AllowList is a set of service IDs.
type AllowList struct {
	ids map[int]struct{}
}

// NewAllowList makes a new AllowList.
func NewAllowList(ids ...int) AllowList {
	m := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return AllowList{ids: m}
}

// Contains reports whether the service ID is in the list.
func (a AllowList) Contains(id int) bool {
	_, ok := a.ids[id]
	return ok
}

// Accepts reports whether at least one of the services of d is in the list.
// A downtime without services is never accepted.
func (a AllowList) Accepts(d topology.Downtime) bool {
	for _, s := range d.ServiceList() {
		if a.Contains(s.ID) {
			return true
		}
	}
	return false
}

// IDs returns the service IDs in ascending order.
func (a AllowList) IDs() []int {
	xs := make([]int, 0, len(a.ids))
	for id := range a.ids {
		xs = append(xs, id)
	}
	sort.Ints(xs)
	return xs
}

func (a AllowList) String() string {
	ids := a.IDs()
	ss := make([]string, len(ids))
	for i, id := range ids {
		ss[i] = strconv.Itoa(id)
	}
	return strings.Join(ss, ",")
}
