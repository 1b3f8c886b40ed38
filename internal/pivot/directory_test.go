package pivot_test

import (
	"testing"

	"github.com/macrat/topodown/internal/pivot"
	"github.com/macrat/topodown/internal/topology"
)

func TestDirectory_Resolve(t *testing.T) {
	dir := pivot.NewDirectory([]topology.ResourceGroup{
		{GroupName: "CE1", Site: topology.NamedRef{Name: "SiteA"}},
		{GroupName: "CE1", Site: topology.NamedRef{Name: "SiteZ"}},
		{GroupName: "NoSite"},
	})

	tests := []struct {
		Group string
		Site  string
	}{
		{"CE1", "SiteA"},
		{"ce1", "ce1"},
		{"Unknown", "Unknown"},
		{"NoSite", "NoSite"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.Group, func(t *testing.T) {
			if actual := dir.Resolve(tt.Group); actual != tt.Site {
				t.Errorf("expected %q but got %q", tt.Site, actual)
			}
		})
	}

	if dir.Len() != 2 {
		t.Errorf("expected 2 groups but got %d", dir.Len())
	}
}

func TestDirectory_nil(t *testing.T) {
	var dir *pivot.Directory

	if actual := dir.Resolve("CE1"); actual != "CE1" {
		t.Errorf("nil directory should resolve to the group name but got %q", actual)
	}
}
