package oracle

//go:generate mockgen --source types.go --destination mocks.go --package oracle

import (
	"context"
	"math/big"

	"github.com/make-software/casper-go-sdk/types/key"

	"github.com/backit-onchain/oracle/pkg/pricefeed"
	"github.com/backit-onchain/oracle/pkg/settlement"
	"github.com/backit-onchain/oracle/pkg/signer"
)

// PriceDecimals is the number of decimals of the on-chain final price: a USD price of 2.5 is
// submitted as 250000000.
const PriceDecimals = 8

type PriceSource interface {
	FetchPrice(ctx context.Context, tokenAddress, pairID string) pricefeed.Quote
}

type OutcomeSubmitter interface {
	SubmitOutcome(ctx context.Context, callID uint64, outcome bool, finalPrice *big.Int, timestamp int64) (key.Hash, error)
	GetDeployStatus(ctx context.Context, hash key.Hash) settlement.DeployStatus
}

// OutcomeRequest describes the outcome of a call. When FinalPrice is nil it is taken from the
// price feed for PairID; when Timestamp is zero the current time is used. Settling with a stale
// feed price is refused unless AllowStale is set.
type OutcomeRequest struct {
	CallID       uint64   `json:"callId"`
	Outcome      bool     `json:"outcome"`
	FinalPrice   *big.Int `json:"finalPrice,omitempty"`
	TokenAddress string   `json:"tokenAddress,omitempty"`
	PairID       string   `json:"pairId,omitempty"`
	Timestamp    int64    `json:"timestamp,omitempty"`
	AllowStale   bool     `json:"allowStale,omitempty"`
}

type SignedOutcome struct {
	Message   signer.OutcomeMessage
	Signature []byte
	// PublicKey is the raw hex public key the signature verifies against.
	PublicKey string
	// Quote is set when the final price came from the price feed.
	Quote *pricefeed.Quote
}

type PublicKeyInfo struct {
	PublicKey string `json:"publicKey"`
	Account   string `json:"account"`
	Algorithm string `json:"algorithm"`
	Ephemeral bool   `json:"ephemeral"`
}
