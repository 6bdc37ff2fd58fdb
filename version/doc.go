// Package version exposes build metadata for the speakmate binaries.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/speakmate/version.Version=1.2.0" ./cmd/speakmate-server
//
// Values not injected fall back to the VCS stamp in debug.ReadBuildInfo.
package version
