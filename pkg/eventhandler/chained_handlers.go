package eventhandler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/backit-onchain/oracle/pkg/system"
)

// An event handler implementation that chains multiple event handlers, and accepts a context provider
// to setup up the context once for all handlers.
type ChainedDeployEventHandler struct {
	eventHandlers   []DeployEventHandler
	contextProvider ContextProvider
}

func NewChainedDeployEventHandler(contextProvider ContextProvider) *ChainedDeployEventHandler {
	return &ChainedDeployEventHandler{contextProvider: contextProvider}
}

func (r *ChainedDeployEventHandler) AddHandlers(handlers ...DeployEventHandler) {
	r.eventHandlers = append(r.eventHandlers, handlers...)
}

func (r *ChainedDeployEventHandler) HandleDeployEvent(ctx context.Context, event DeployEvent) (err error) {
	startTime := time.Now()
	defer logEvent(ctx, event, startTime)(&err)

	if r.eventHandlers == nil {
		return fmt.Errorf("no event handlers registered")
	}

	deployCtx := r.contextProvider.GetContext(ctx, event.DeployHash.String())

	// All handlers are called, unless one of them returns an error.
	for _, handler := range r.eventHandlers {
		if err = handler.HandleDeployEvent(deployCtx, event); err != nil { //nolint:gocritic
			return err
		}
	}
	return nil
}

func logEvent(ctx context.Context, event DeployEvent, startTime time.Time) func(*error) {
	return func(handlerError *error) {
		var logMsg *zerolog.Event
		if system.IsQuietEnvironment() {
			logMsg = log.Ctx(ctx).Trace()
		} else {
			logMsg = log.Ctx(ctx).Info()
		}

		logMsg = logMsg.
			Str("DeployHash", event.DeployHash.String()).
			Str("BlockHash", event.BlockHash.String()).
			Str("Account", event.Account).
			Bool("Succeeded", event.Succeeded()).
			Uint64("Cost", event.Cost()).
			Int("ContractTransforms", len(event.ContractTransforms)).
			Int("ContractEvents", len(event.ContractEvents)).
			Dur("HandleDuration", time.Since(startTime))
		if msg := event.ErrorMessage(); msg != "" {
			logMsg = logMsg.Str("ExecutionError", msg)
		}
		if *handlerError != nil {
			logMsg = logMsg.AnErr("HandlerError", *handlerError)
		}

		logMsg.Msg("Handled deploy event")
	}
}
