// Package version holds the build metadata stamped into the pokearena
// binaries with -ldflags. The defaults identify a local dev build.
package version

var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)
