// Package version exposes the memocache build version.
package version

// version is set at build time via -ldflags:
//
//	go build -ldflags "-X github.com/rshade/memocache/pkg/version.version=v1.2.3"
var version = "dev"

// GetVersion returns the build version string.
func GetVersion() string {
	return version
}
