// Package meta holds the build information of topodown.
package meta

import (
	"runtime"
)

// Version and Commit are set by the build with -ldflags "-X github.com/macrat/topodown/internal/meta.Version=...".
var (
	Version = "HEAD"
	Commit  = "UNKNOWN"
)

// String returns the version and commit, like "1.2.3 (abcdef0)".
func String() string {
	return Version + " (" + Commit + ")"
}

// UserAgent returns the User-Agent header value for requests to the registry.
func UserAgent() string {
	return "topodown/" + Version + " (" + runtime.GOOS + "; +https://github.com/macrat/topodown)"
}
