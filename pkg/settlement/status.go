package settlement

import (
	"fmt"
	"strings"
)

// DeployStatus is the oracle's view of a submitted deploy.
type DeployStatus string

const (
	// StatusPending means the node knows the deploy but has not reported an execution result.
	StatusPending DeployStatus = "pending"
	StatusSuccess DeployStatus = "success"
	StatusFailed  DeployStatus = "failed"
	// StatusUnknown means the node could not be asked, or did not recognise the deploy.
	StatusUnknown DeployStatus = "unknown"
)

func (s DeployStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status can no longer change.
func (s DeployStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

func ParseDeployStatus(s string) (DeployStatus, error) {
	switch status := DeployStatus(strings.ToLower(s)); status {
	case StatusPending, StatusSuccess, StatusFailed, StatusUnknown:
		return status, nil
	default:
		return "", fmt.Errorf("unknown deploy status %q", s)
	}
}
