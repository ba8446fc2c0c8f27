package settlement

import (
	"context"
	"math/big"
	"time"

	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/backit-onchain/oracle/pkg/casper/rpc"
	"github.com/backit-onchain/oracle/pkg/deploys"
	"github.com/backit-onchain/oracle/pkg/lib/backoff"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/signer"
	"github.com/backit-onchain/oracle/pkg/system"
)

// Submitter signs and sends submit_outcome deploys and reports on their execution.
// It never retries; callers decide whether to resubmit or poll again.
type Submitter struct {
	signer  *signer.Signer
	builder *deploys.Builder
	node    rpc.NodeClient
}

func NewSubmitter(s *signer.Signer, builder *deploys.Builder, node rpc.NodeClient) *Submitter {
	return &Submitter{
		signer:  s,
		builder: builder,
		node:    node,
	}
}

// SubmitOutcome settles callID on chain and returns the deploy hash. The timestamp belongs to the
// signed outcome statement; the deploy header is stamped with the current time.
func (s *Submitter) SubmitOutcome(
	ctx context.Context, callID uint64, outcome bool, finalPrice *big.Int, timestamp int64,
) (key.Hash, error) {
	ctx, span := system.Span(ctx, "pkg/settlement.Submitter.SubmitOutcome",
		oteltrace.WithAttributes(attribute.Int64(system.TracerAttributeNameCallID, int64(callID))))
	defer span.End()

	sender, ok := s.signer.PublicKey()
	if !ok {
		return key.Hash{}, oracleerrors.ErrSignerUnconfigured
	}
	if !s.builder.HasOutcomeManager() {
		return key.Hash{}, oracleerrors.NewContractNotConfigured("outcome manager")
	}

	deploy, err := s.builder.BuildSubmitOutcome(sender, callID, outcome, finalPrice)
	if err != nil {
		return key.Hash{}, err
	}
	if err := s.signer.SignDeploy(deploy); err != nil {
		return key.Hash{}, err
	}

	accepted, err := s.node.PutDeploy(ctx, *deploy)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Uint64("CallID", callID).
			Str("DeployHash", deploy.Hash.String()).
			Msg("failed to submit outcome deploy")
		return key.Hash{}, err
	}
	if accepted != deploy.Hash {
		log.Ctx(ctx).Warn().
			Str("DeployHash", deploy.Hash.String()).
			Str("AcceptedHash", accepted.String()).
			Msg("node accepted outcome deploy under a different hash")
	}

	log.Ctx(ctx).Info().
		Uint64("CallID", callID).
		Bool("Outcome", outcome).
		Str("FinalPrice", finalPrice.String()).
		Int64("Timestamp", timestamp).
		Str("DeployHash", deploy.Hash.String()).
		Msg("submitted outcome deploy")
	span.SetAttributes(attribute.String(system.TracerAttributeNameDeployHash, deploy.Hash.String()))
	return deploy.Hash, nil
}

// GetDeployStatus asks the node once. Query failures are reported as StatusUnknown, not as errors.
func (s *Submitter) GetDeployStatus(ctx context.Context, hash key.Hash) DeployStatus {
	return QueryDeployStatus(ctx, s.node, hash)
}

// WaitForDeploy polls until the deploy reaches a terminal status or ctx is done, backing off between
// polls from interval up to maxInterval. A zero interval polls without pausing. It returns the last
// status seen.
func (s *Submitter) WaitForDeploy(
	ctx context.Context, hash key.Hash, interval, maxInterval time.Duration,
) DeployStatus {
	var b backoff.Backoff = backoff.NewExponential(interval, maxInterval)
	if interval <= 0 {
		b = backoff.NewNoop()
	}
	status := StatusUnknown
	for attempt := 0; ; attempt++ {
		b.Backoff(ctx, attempt)
		if ctx.Err() != nil {
			return status
		}
		status = s.GetDeployStatus(ctx, hash)
		log.Ctx(ctx).Debug().Str("DeployHash", hash.String()).Stringer("Status", status).Msg("polled deploy")
		if status.IsTerminal() {
			return status
		}
	}
}

// QueryDeployStatus maps the node's view of a deploy onto a DeployStatus. Only the first execution
// result is considered.
func QueryDeployStatus(ctx context.Context, node rpc.NodeClient, hash key.Hash) DeployStatus {
	result, err := node.GetDeploy(ctx, hash)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("DeployHash", hash.String()).Msg("deploy status query failed")
		return StatusUnknown
	}
	return StatusFromResult(result)
}

func StatusFromResult(result rpc.GetDeployResult) DeployStatus {
	if len(result.ExecutionResults) == 0 {
		return StatusPending
	}
	first := result.ExecutionResults[0].Result
	switch {
	case first.Success != nil:
		return StatusSuccess
	case first.Failure != nil:
		return StatusFailed
	default:
		return StatusPending
	}
}
