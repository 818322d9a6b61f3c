// Package version carries build identification, overridable at link time:
//
//	go build -ldflags "-X companion/internal/version.Version=v0.3.0"
package version

var (
	AppName = "companion"
	Version = "dev"
)
