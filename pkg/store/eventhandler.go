package store

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/backit-onchain/oracle/pkg/eventhandler"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/settlement"
)

// SettlementEventHandler marks stored settlements as executed when their deploy is processed.
// Deploys the oracle did not submit are ignored.
type SettlementEventHandler struct {
	store SettlementStore
}

func NewSettlementEventHandler(store SettlementStore) *SettlementEventHandler {
	return &SettlementEventHandler{store: store}
}

func (h *SettlementEventHandler) HandleDeployEvent(ctx context.Context, event eventhandler.DeployEvent) error {
	deployHash := event.DeployHash.String()
	existing, err := h.store.GetSettlementByDeploy(ctx, deployHash)
	if err != nil {
		if oracleerrors.CodeOf(err) == oracleerrors.NotFound {
			return nil
		}
		return err
	}
	if existing.Status.IsTerminal() {
		return nil
	}

	status := settlement.StatusFailed
	if event.Succeeded() {
		status = settlement.StatusSuccess
	}
	if err := h.store.UpdateSettlementStatus(ctx, deployHash, status, event.ErrorMessage()); err != nil {
		return err
	}
	log.Ctx(ctx).Info().
		Uint64("CallID", existing.CallID).
		Str("DeployHash", deployHash).
		Str("Status", status.String()).
		Msg("settlement executed")
	return nil
}

var _ eventhandler.DeployEventHandler = (*SettlementEventHandler)(nil)
