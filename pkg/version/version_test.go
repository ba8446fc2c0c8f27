//go:build unit || !integration

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	oldVersion, oldDate := GITVERSION, BUILDDATE
	t.Cleanup(func() { GITVERSION, BUILDDATE = oldVersion, oldDate })

	GITVERSION = "v1.4.2"
	BUILDDATE = "2024-03-01T10:00:00Z"
	info := Get()
	assert.Equal(t, "1", info.Major)
	assert.Equal(t, "4", info.Minor)
	assert.Equal(t, "v1.4.2", info.GitVersion)
	assert.Equal(t, 2024, info.BuildDate.Year())

	GITVERSION = "not-a-version"
	info = Get()
	assert.Empty(t, info.Major)
	assert.Equal(t, "not-a-version", info.GitVersion)
}
