package topology

import (
	"bytes"
	"encoding/xml"

	"github.com/goccy/go-json"
)

// OneOrMany is a field that the upstream registry sends as either a single element or a list of elements.
//
// The zero value is an absent field.
// Use Items to get the values as a plain slice; the single-or-list distinction is only kept for re-encoding.
type OneOrMany[T any] struct {
	items []T
	many  bool
}

// One makes a OneOrMany that holds a single value.
func One[T any](v T) OneOrMany[T] {
	return OneOrMany[T]{items: []T{v}}
}

// Many makes a OneOrMany that holds a list.
func Many[T any](vs ...T) OneOrMany[T] {
	return OneOrMany[T]{items: append([]T{}, vs...), many: true}
}

// Items returns the values in the source order.
// A single value becomes a one-element slice, and an absent field becomes an empty slice.
// The returned slice is a copy.
func (o OneOrMany[T]) Items() []T {
	xs := make([]T, len(o.items))
	copy(xs, o.items)
	return xs
}

// Len returns the number of values.
func (o OneOrMany[T]) Len() int {
	return len(o.items)
}

// IsMany reports whether the value was a list.
func (o OneOrMany[T]) IsMany() bool {
	return o.many
}

// UnmarshalXML implements xml.Unmarshaler.
// encoding/xml calls it once per repeated element, so each call appends.
func (o *OneOrMany[T]) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var v T
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	o.items = append(o.items, v)
	o.many = len(o.items) > 1
	return nil
}

// MarshalJSON implements json.Marshaler.
// A single value is encoded as an object and a list as an array, the same as it was decoded.
func (o OneOrMany[T]) MarshalJSON() ([]byte, error) {
	switch {
	case o.many:
		return json.Marshal(o.Items())
	case len(o.items) == 1:
		return json.Marshal(o.items[0])
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case isEmptyJSON(data):
		*o = OneOrMany[T]{}
	case data[0] == '[':
		var xs []T
		if err := json.Unmarshal(data, &xs); err != nil {
			return err
		}
		*o = Many(xs...)
	default:
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*o = One(v)
	}

	return nil
}

// isEmptyJSON reports whether data is null or an empty string.
// An empty XML element is converted to "" by common XML-to-JSON converters.
func isEmptyJSON(data []byte) bool {
	return len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`))
}
