// Package buildinfo carries release metadata stamped by the linker, e.g.
//
//	go build -ldflags "-X github.com/m3rciful/bankbot/core/buildinfo.Version=v0.3.0 \
//	  -X github.com/m3rciful/bankbot/core/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the short source revision.
	Commit = "local"
	// Date is the build time in RFC 3339, empty for local builds.
	Date = ""
)
