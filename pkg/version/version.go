package version

import (
	"strconv"
	"time"

	"github.com/Masterminds/semver"
	"github.com/rs/zerolog/log"
)

// BuildVersionInfo describes the binary serving the oracle.
type BuildVersionInfo struct {
	Major      string    `json:"Major,omitempty" example:"0"`
	Minor      string    `json:"Minor,omitempty" example:"1"`
	GitVersion string    `json:"GitVersion" example:"v0.1.0"`
	GitCommit  string    `json:"GitCommit" example:"d612b63108f2b5ce1ab2b9e02444eb1dac1d922d"`
	BuildDate  time.Time `json:"BuildDate" example:"2024-01-16T14:03:31Z"`
	GOOS       string    `json:"GOOS" example:"linux"`
	GOARCH     string    `json:"GOARCH" example:"amd64"`
}

// Get returns the overall codebase version. It's for detecting
// what code a binary was built from.
func Get() *BuildVersionInfo {
	versionInfo := &BuildVersionInfo{
		GitVersion: GITVERSION,
		GitCommit:  GITCOMMIT,
		GOOS:       GOOS,
		GOARCH:     GOARCH,
	}

	s, err := semver.NewVersion(GITVERSION)
	if err != nil {
		log.Warn().Msgf("Could not parse GITVERSION %q - %s", GITVERSION, err)
	} else {
		versionInfo.Major = strconv.FormatInt(s.Major(), 10) //nolint:gomnd // base10, magic number appropriate
		versionInfo.Minor = strconv.FormatInt(s.Minor(), 10) //nolint:gomnd // base10, magic number appropriate
	}

	buildDate, err := time.Parse("2006-01-02T15:04:05Z", BUILDDATE)
	if err != nil {
		log.Warn().Msgf("Could not parse BUILDDATE %q - %s", BUILDDATE, err)
	}
	versionInfo.BuildDate = buildDate

	return versionInfo
}
