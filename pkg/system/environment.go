package system

import (
	"sync/atomic"
)

type Environment string

const (
	EnvironmentDev  Environment = "development"
	EnvironmentTest Environment = "test"
	EnvironmentProd Environment = "production"
)

var environment atomic.Value

func init() { //nolint:gochecknoinits
	environment.Store(EnvironmentDev)
}

// SetEnvironment records the environment the process runs in, as read from configuration.
func SetEnvironment(env Environment) {
	environment.Store(env)
}

func GetEnvironment() Environment {
	return environment.Load().(Environment)
}

// IsQuietEnvironment reports whether per-event and per-request logging should drop to trace level.
func IsQuietEnvironment() bool {
	env := GetEnvironment()
	return env == EnvironmentDev || env == EnvironmentTest
}
