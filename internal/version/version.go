// Package version exposes the build version of the application.
package version

// Version is the application version string. It defaults to "dev" and is
// meant to be overridden at build time:
//
//	go build -ldflags "-X github.com/vk/greetgo/internal/version.Version=v1.0.0" ./cmd/cli
var Version = "dev"
