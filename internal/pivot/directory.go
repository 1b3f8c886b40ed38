package pivot

import (
	"github.com/macrat/topodown/internal/topology"
)

// Directory resolves resource group names to site names.
//
// A Directory is immutable after NewDirectory, so it can be shared.
type Directory struct {
	sites map[string]string
}

// NewDirectory indexes resource groups by their name.
// If a name appears more than once, the first one is used.
func NewDirectory(groups []topology.ResourceGroup) *Directory {
	d := &Directory{
		sites: make(map[string]string, len(groups)),
	}
	for _, g := range groups {
		if _, ok := d.sites[g.GroupName]; !ok {
			d.sites[g.GroupName] = g.Site.Name
		}
	}
	return d
}

// Resolve returns the site name of the resource group.
// The group name is returned as is if it is not in the directory.
func (d *Directory) Resolve(group string) string {
	if d == nil {
		return group
	}
	if site, ok := d.sites[group]; ok && site != "" {
		return site
	}
	return group
}

// Len returns the number of indexed resource groups.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.sites)
}
