package oracle

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/make-software/casper-go-sdk/types/keypair"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/backit-onchain/oracle/pkg/casper"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/pricefeed"
	"github.com/backit-onchain/oracle/pkg/settlement"
	"github.com/backit-onchain/oracle/pkg/signer"
	"github.com/backit-onchain/oracle/pkg/store"
	"github.com/backit-onchain/oracle/pkg/system"
)

type Params struct {
	Prices    PriceSource
	Signer    *signer.Signer
	Submitter OutcomeSubmitter
	Store     store.SettlementStore
	Clock     func() time.Time
}

// Service settles prediction calls: it prices, signs, submits and records outcomes.
type Service struct {
	prices    PriceSource
	signer    *signer.Signer
	submitter OutcomeSubmitter
	store     store.SettlementStore
	clock     func() time.Time
}

func NewService(params Params) *Service {
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &Service{
		prices:    params.Prices,
		signer:    params.Signer,
		submitter: params.Submitter,
		store:     params.Store,
		clock:     params.Clock,
	}
}

func (s *Service) PublicKey() (PublicKeyInfo, error) {
	pub, ok := s.signer.PublicKey()
	if !ok {
		return PublicKeyInfo{}, oracleerrors.ErrSignerUnconfigured
	}
	return PublicKeyInfo{
		PublicKey: casper.RawPublicKeyHex(pub),
		Account:   pub.ToHex(),
		Algorithm: string(casper.KeyAlgorithm(pub)),
		Ephemeral: s.signer.IsEphemeral(),
	}, nil
}

func (s *Service) Quote(ctx context.Context, tokenAddress, pairID string) pricefeed.Quote {
	return s.prices.FetchPrice(ctx, tokenAddress, pairID)
}

// resolve fills in the final price and timestamp of the request.
func (s *Service) resolve(ctx context.Context, req OutcomeRequest) (signer.OutcomeMessage, *pricefeed.Quote, error) {
	msg := signer.OutcomeMessage{
		CallID:     req.CallID,
		Outcome:    req.Outcome,
		FinalPrice: req.FinalPrice,
		Timestamp:  req.Timestamp,
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = s.clock().UnixMilli()
	}
	if msg.FinalPrice != nil {
		if msg.FinalPrice.Sign() < 0 {
			return msg, nil, oracleerrors.New(oracleerrors.BadRequest, "final price must not be negative")
		}
		return msg, nil, nil
	}
	if req.PairID == "" {
		return msg, nil, oracleerrors.New(oracleerrors.BadRequest, "either a final price or a pair id is required")
	}
	quote := s.prices.FetchPrice(ctx, req.TokenAddress, req.PairID)
	msg.FinalPrice = quote.Scaled(PriceDecimals)
	return msg, &quote, nil
}

func (s *Service) SignOutcome(ctx context.Context, req OutcomeRequest) (SignedOutcome, error) {
	if !s.signer.IsConfigured() {
		return SignedOutcome{}, oracleerrors.ErrSignerUnconfigured
	}
	msg, quote, err := s.resolve(ctx, req)
	if err != nil {
		return SignedOutcome{}, err
	}
	sig, err := s.signer.SignOutcome(msg.CallID, msg.Outcome, msg.FinalPrice, msg.Timestamp)
	if err != nil {
		return SignedOutcome{}, err
	}
	publicKey, _ := s.signer.PublicKeyHex()

	log.Ctx(ctx).Info().
		Uint64("CallID", msg.CallID).
		Bool("Outcome", msg.Outcome).
		Str("FinalPrice", msg.FinalPrice.String()).
		Msg("signed outcome")
	return SignedOutcome{Message: msg, Signature: sig, PublicKey: publicKey, Quote: quote}, nil
}

// Settle signs the outcome, submits it on chain and records the settlement as pending.
func (s *Service) Settle(ctx context.Context, req OutcomeRequest) (store.Settlement, error) {
	ctx, span := system.Span(ctx, "pkg/oracle.Service.Settle",
		oteltrace.WithAttributes(attribute.Int64(system.TracerAttributeNameCallID, int64(req.CallID))))
	defer span.End()

	signed, err := s.SignOutcome(ctx, req)
	if err != nil {
		return store.Settlement{}, err
	}
	msg := signed.Message
	if signed.Quote != nil && !signed.Quote.Fresh {
		if !req.AllowStale {
			return store.Settlement{}, oracleerrors.NewStalePrice(req.PairID, signed.Quote.Reason)
		}
		log.Ctx(ctx).Warn().
			Uint64("CallID", msg.CallID).
			Str("PairID", req.PairID).
			Str("Reason", signed.Quote.Reason).
			Msg("settling with a stale price")
	}

	deployHash, err := s.submitter.SubmitOutcome(ctx, msg.CallID, msg.Outcome, msg.FinalPrice, msg.Timestamp)
	if err != nil {
		return store.Settlement{}, err
	}

	record := store.Settlement{
		CallID:     msg.CallID,
		Outcome:    msg.Outcome,
		FinalPrice: msg.FinalPrice.String(),
		Timestamp:  msg.Timestamp,
		Signature:  hex.EncodeToString(signed.Signature),
		DeployHash: deployHash.String(),
		Status:     settlement.StatusPending,
	}
	if signed.Quote != nil {
		record.PriceUSD = signed.Quote.Price.String()
		record.PriceFresh = signed.Quote.Fresh
	}
	if err := s.store.AddSettlement(ctx, record); err != nil {
		// the deploy is on its way; losing the record must not make the caller resubmit
		log.Ctx(ctx).Error().Err(err).
			Uint64("CallID", msg.CallID).
			Str("DeployHash", deployHash.String()).
			Msg("failed to record settlement")
		return record, nil
	}

	stored, err := s.store.GetSettlementByDeploy(ctx, deployHash.String())
	if err != nil {
		return record, nil
	}
	return stored, nil
}

// DeployStatus asks the node for the status of a deploy and, when it is terminal, updates the
// matching settlement.
func (s *Service) DeployStatus(ctx context.Context, hash key.Hash) settlement.DeployStatus {
	status := s.submitter.GetDeployStatus(ctx, hash)
	if !status.IsTerminal() {
		return status
	}

	existing, err := s.store.GetSettlementByDeploy(ctx, hash.String())
	if err != nil || existing.Status == status {
		return status
	}
	if err := s.store.UpdateSettlementStatus(ctx, hash.String(), status, ""); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("DeployHash", hash.String()).Msg("failed to update settlement status")
	}
	return status
}

func (s *Service) Settlement(ctx context.Context, callID uint64) (store.Settlement, error) {
	return s.store.GetSettlementByCall(ctx, callID)
}

func (s *Service) Settlements(ctx context.Context, query store.SettlementQuery) ([]store.Settlement, error) {
	return s.store.ListSettlements(ctx, query)
}

// VerifyOutcome checks a signature over an outcome against a tagged or raw hex public key.
func VerifyOutcome(publicKeyHex string, msg signer.OutcomeMessage, signature []byte) error {
	if len(publicKeyHex) == 2*ed25519.PublicKeySize {
		// untagged keys are Ed25519, as returned by PublicKeyHex
		publicKeyHex = fmt.Sprintf("%02x%s", keypair.ED25519.Byte(), publicKeyHex)
	}
	pub, err := casper.ParsePublicKey(publicKeyHex)
	if err != nil {
		return oracleerrors.NewParseFailure("public key", err)
	}
	return signer.VerifyOutcome(pub, msg, signature)
}

// ParseFinalPrice parses a decimal integer price.
func ParseFinalPrice(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, oracleerrors.New(oracleerrors.BadRequest, "invalid final price %q", s)
	}
	return v, nil
}
