package app

import "fmt"

// Set at build time:
//
//	go build -ldflags "-X github.com/heartmarshall/tonememory/internal/app.Version=1.2.0 -X github.com/heartmarshall/tonememory/internal/app.Commit=$(git rev-parse --short HEAD)" ./cmd/tonememory
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion describes the running binary for startup logs and --version.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
