package eventhandler

//go:generate mockgen --source types.go --destination mock_eventhandler/mock_eventhandler.go --package mock_eventhandler

import (
	"context"

	"github.com/make-software/casper-go-sdk/sse"
	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/key"
)

// DeployEventHandler is notified of every processed deploy seen on the node event stream.
type DeployEventHandler interface {
	HandleDeployEvent(ctx context.Context, event DeployEvent) error
}

// ContextProvider generates the context used to handle the events of a deploy.
type ContextProvider interface {
	GetContext(ctx context.Context, deployHash string) context.Context
}

// DeployEvent is a processed deploy together with whatever the indexer could extract about the
// contracts it watches.
type DeployEvent struct {
	sse.DeployProcessedPayload

	// ContractTransforms are the transforms whose key belongs to a watched contract.
	ContractTransforms []types.TransformKey `json:"contract_transforms,omitempty"`
	// ContractEvents are the events decoded from ContractTransforms, if a decoder is installed.
	ContractEvents []ContractEvent `json:"contract_events,omitempty"`
}

// ContractEvent is a decoded contract event.
type ContractEvent struct {
	Contract key.Hash       `json:"contract"`
	Name     string         `json:"name"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// Succeeded reports whether the deploy executed without error.
func (e DeployEvent) Succeeded() bool {
	return e.ExecutionResult.Success != nil
}

// ErrorMessage returns the execution error of a failed deploy, empty otherwise.
func (e DeployEvent) ErrorMessage() string {
	if e.ExecutionResult.Failure == nil {
		return ""
	}
	return e.ExecutionResult.Failure.ErrorMessage
}

// Cost is the gas cost in motes of either execution variant.
func (e DeployEvent) Cost() uint64 {
	if data := ResultData(e.ExecutionResult); data != nil {
		return data.Cost
	}
	return 0
}

// ResultData returns whichever of Success or Failure is set.
func ResultData(result types.ExecutionResultStatus) *types.ExecutionResultStatusData {
	if result.Success != nil {
		return result.Success
	}
	return result.Failure
}

// DeployEventHandlerFunc adapts a function to a DeployEventHandler.
type DeployEventHandlerFunc func(ctx context.Context, event DeployEvent) error

func (f DeployEventHandlerFunc) HandleDeployEvent(ctx context.Context, event DeployEvent) error {
	return f(ctx, event)
}
