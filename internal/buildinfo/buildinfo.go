// Package buildinfo stores build-time metadata shared across packages.
package buildinfo

import "fmt"

// Version is set via ldflags during build. Defaults to "dev".
var Version = "dev"

// Commit is the git commit the binary was built from.
var Commit = "none"

// Date is the build timestamp.
var Date = "unknown"

// String renders the metadata as shown by --version.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
