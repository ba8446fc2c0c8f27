package store

//go:generate mockgen --source types.go --destination mocks.go --package store

import (
	"context"
	"time"

	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/settlement"
)

// Settlement records an outcome the oracle signed and submitted for a call.
type Settlement struct {
	ID     string `json:"id"`
	CallID uint64 `json:"callId"`
	// Outcome is true when the call's prediction came true.
	Outcome bool `json:"outcome"`
	// FinalPrice is the on-chain integer price, as decimal digits.
	FinalPrice string `json:"finalPrice"`
	// PriceUSD is the quote the outcome was decided on, when the oracle fetched one.
	PriceUSD   string `json:"priceUsd,omitempty"`
	PriceFresh bool   `json:"priceFresh"`
	// Timestamp is the signed outcome timestamp, in milliseconds since the epoch.
	Timestamp    int64                   `json:"timestamp"`
	Signature    string                  `json:"signature"`
	DeployHash   string                  `json:"deployHash"`
	Status       settlement.DeployStatus `json:"status"`
	ErrorMessage string                  `json:"errorMessage,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

type SettlementQuery struct {
	Status      settlement.DeployStatus `json:"status"`
	Limit       int                     `json:"limit"`
	Offset      int                     `json:"offset"`
	SortReverse bool                    `json:"sort_reverse"`
}

// A SettlementStore persists the settlements the oracle submitted and their on-chain status.
type SettlementStore interface {
	AddSettlement(ctx context.Context, s Settlement) error
	GetSettlement(ctx context.Context, id string) (Settlement, error)
	// GetSettlementByCall returns the latest settlement of the call.
	GetSettlementByCall(ctx context.Context, callID uint64) (Settlement, error)
	GetSettlementByDeploy(ctx context.Context, deployHash string) (Settlement, error)
	ListSettlements(ctx context.Context, query SettlementQuery) ([]Settlement, error)
	UpdateSettlementStatus(ctx context.Context, deployHash string, status settlement.DeployStatus, errorMessage string) error
	Close(ctx context.Context) error
}

func NewSettlementNotFound(key string) *oracleerrors.Error {
	return oracleerrors.New(oracleerrors.NotFound, "settlement not found: %s", key).WithDetail("settlement", key)
}
