package util

import (
	"context"

	"github.com/backit-onchain/oracle/pkg/system"
)

type contextKey struct {
	name string
}

var SystemManagerKey = contextKey{name: "context key for storing the system manager"}

// GetCleanupManager returns the cleanup manager the root command stored in ctx.
func GetCleanupManager(ctx context.Context) *system.CleanupManager {
	if cm, ok := ctx.Value(SystemManagerKey).(*system.CleanupManager); ok {
		return cm
	}
	return system.NewCleanupManager()
}
