package view

import (
	"net/url"
	"strings"

	"github.com/macrat/topodown/internal/topoerr"
	"github.com/macrat/topodown/internal/topology"
)

// Key is a column that rows can be sorted by.
type Key int

const (
	KeyNone Key = iota
	KeySite
	KeyPast
	KeyCurrent
	KeyFuture
)

var keyNames = map[Key]string{
	KeyNone:    "",
	KeySite:    "site",
	KeyPast:    "past",
	KeyCurrent: "current",
	KeyFuture:  "future",
}

func (k Key) String() string {
	return keyNames[k]
}

// KeyOf returns the count key of a category.
func KeyOf(c topology.Category) Key {
	switch c {
	case topology.Past:
		return KeyPast
	case topology.Current:
		return KeyCurrent
	case topology.Future:
		return KeyFuture
	default:
		return KeyNone
	}
}

// Order is the direction of sorting.
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Sort is a sort specification. At most one key is active.
type Sort struct {
	Key   Key
	Order Order
}

// DefaultSort sorts rows by site name in ascending order.
var DefaultSort = Sort{Key: KeySite, Order: Ascending}

// ParseSort parses sort key and order, like "past" and "desc".
// An empty key means DefaultSort, and an empty order means ascending.
// The key "none" disables explicit sorting.
func ParseSort(key, order string) (Sort, error) {
	var s Sort

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "":
		s = DefaultSort
	case "none":
		s.Key = KeyNone
	case "site", "name":
		s.Key = KeySite
	case "past":
		s.Key = KeyPast
	case "current":
		s.Key = KeyCurrent
	case "future", "upcoming":
		s.Key = KeyFuture
	default:
		return Sort{}, topoerr.New(topoerr.ErrInvalidSort, nil, "unknown sort key %q", key)
	}

	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
	case "asc", "ascending":
		s.Order = Ascending
	case "desc", "descending":
		s.Order = Descending
	default:
		return Sort{}, topoerr.New(topoerr.ErrInvalidSort, nil, "unknown sort order %q", order)
	}

	return s, nil
}

// Toggle returns the sort after the column of k was selected.
// Selecting the active key flips the order, and selecting another key sorts by it in ascending order.
func (s Sort) Toggle(k Key) Sort {
	if s.Key == k {
		if s.Order == Ascending {
			return Sort{Key: k, Order: Descending}
		}
		return Sort{Key: k, Order: Ascending}
	}
	return Sort{Key: k, Order: Ascending}
}

// IsActive reports whether rows are sorted by k.
func (s Sort) IsActive(k Key) bool {
	return k != KeyNone && s.Key == k
}

// Query returns the URL query that represents s and filter.
func (s Sort) Query(filter string) url.Values {
	qs := url.Values{}
	if filter != "" {
		qs.Set("q", filter)
	}
	if s.Key == KeyNone {
		qs.Set("sort", "none")
	} else {
		qs.Set("sort", s.Key.String())
		qs.Set("order", s.Order.String())
	}
	return qs
}

func (s Sort) String() string {
	if s.Key == KeyNone {
		return "none"
	}
	return s.Key.String() + " " + s.Order.String()
}
