package topology_test

import (
	"encoding/xml"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/macrat/topodown/internal/topology"
)

func TestOneOrMany_Items(t *testing.T) {
	tests := []struct {
		Name   string
		Input  topology.OneOrMany[int]
		Output []int
		Many   bool
	}{
		{"absent", topology.OneOrMany[int]{}, []int{}, false},
		{"single", topology.One(42), []int{42}, false},
		{"many", topology.Many(3, 1, 2), []int{3, 1, 2}, true},
		{"empty-list", topology.Many[int](), []int{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			if diff := cmp.Diff(tt.Output, tt.Input.Items()); diff != "" {
				t.Errorf("unexpected items:\n%s", diff)
			}
			if tt.Input.IsMany() != tt.Many {
				t.Errorf("expected IsMany %v but got %v", tt.Many, tt.Input.IsMany())
			}
		})
	}
}

func TestOneOrMany_Items_copy(t *testing.T) {
	o := topology.Many(1, 2, 3)

	xs := o.Items()
	xs[0] = 100

	if o.Items()[0] != 1 {
		t.Errorf("Items should return a copy")
	}
}

func TestOneOrMany_JSON(t *testing.T) {
	tests := []struct {
		Input   string
		Items   []string
		Encoded string
	}{
		{`"a"`, []string{"a"}, `"a"`},
		{`["a"]`, []string{"a"}, `["a"]`},
		{`["a","b"]`, []string{"a", "b"}, `["a","b"]`},
		{`[]`, []string{}, `[]`},
		{`null`, []string{}, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.Input, func(t *testing.T) {
			var o topology.OneOrMany[string]
			if err := json.Unmarshal([]byte(tt.Input), &o); err != nil {
				t.Fatalf("failed to decode: %s", err)
			}

			if diff := cmp.Diff(tt.Items, o.Items()); diff != "" {
				t.Errorf("unexpected items:\n%s", diff)
			}

			encoded, err := json.Marshal(o)
			if err != nil {
				t.Fatalf("failed to encode: %s", err)
			}
			if string(encoded) != tt.Encoded {
				t.Errorf("expected %s but got %s", tt.Encoded, encoded)
			}
		})
	}
}

func TestOneOrMany_XML(t *testing.T) {
	type doc struct {
		Value topology.OneOrMany[string] `xml:"Value"`
	}

	tests := []struct {
		Input string
		Items []string
		Many  bool
	}{
		{`<doc></doc>`, []string{}, false},
		{`<doc><Value>a</Value></doc>`, []string{"a"}, false},
		{`<doc><Value>a</Value><Value>b</Value><Value>c</Value></doc>`, []string{"a", "b", "c"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.Input, func(t *testing.T) {
			var d doc
			if err := xml.Unmarshal([]byte(tt.Input), &d); err != nil {
				t.Fatalf("failed to decode: %s", err)
			}

			if diff := cmp.Diff(tt.Items, d.Value.Items()); diff != "" {
				t.Errorf("unexpected items:\n%s", diff)
			}
			if d.Value.IsMany() != tt.Many {
				t.Errorf("expected IsMany %v but got %v", tt.Many, d.Value.IsMany())
			}
		})
	}
}
