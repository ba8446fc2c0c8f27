//go:generate mockgen --source types.go --destination mocks.go --package rpc

// Package rpc wraps the casper-go-sdk JSON-RPC client with the oracle's error classes and tracing.
package rpc

import (
	"context"

	sdkrpc "github.com/make-software/casper-go-sdk/rpc"
	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/key"
)

const (
	MethodPutDeploy = sdkrpc.MethodPutDeploy
	MethodGetDeploy = sdkrpc.MethodGetDeploy
	MethodGetStatus = sdkrpc.MethodGetStatus
)

type (
	GetDeployResult = sdkrpc.InfoGetDeployResult
	StatusResult    = sdkrpc.InfoGetStatusResult
)

// NodeClient is the subset of the node's JSON-RPC API used by the oracle.
type NodeClient interface {
	// PutDeploy submits a signed deploy and returns the hash the node accepted it under.
	PutDeploy(ctx context.Context, deploy types.Deploy) (key.Hash, error)
	// GetDeploy returns the deploy and any execution results known to the node.
	GetDeploy(ctx context.Context, hash key.Hash) (GetDeployResult, error)
	GetStatus(ctx context.Context) (StatusResult, error)
}
