package version

import "runtime"

// Set at build time with -ldflags "-X github.com/backit-onchain/oracle/pkg/version.GITVERSION=v0.1.0 ..."
var (
	GITVERSION = "v0.0.0-dev"
	GITCOMMIT  = "unknown"
	BUILDDATE  = "1970-01-01T00:00:00Z"
	GOOS       = runtime.GOOS
	GOARCH     = runtime.GOARCH
)
