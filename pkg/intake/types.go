package intake

//go:generate mockgen --source types.go --destination mocks.go --package intake

import (
	"context"
	"time"

	"github.com/backit-onchain/oracle/pkg/oracle"
	"github.com/backit-onchain/oracle/pkg/store"
)

const (
	DefaultPrefetch   = 1
	DefaultMinBackoff = time.Second
	DefaultMaxBackoff = time.Minute
)

// Settler is implemented by *oracle.Service.
type Settler interface {
	Settle(ctx context.Context, req oracle.OutcomeRequest) (store.Settlement, error)
}

// SettlementRequest is the body of a queued settlement message, e.g.
// {"callId":7,"outcome":true,"pairId":"0xabc"}. AllowStale lets it settle on a fallback price.
type SettlementRequest struct {
	CallID       uint64 `json:"callId"`
	Outcome      bool   `json:"outcome"`
	FinalPrice   string `json:"finalPrice,omitempty"`
	TokenAddress string `json:"tokenAddress,omitempty"`
	PairID       string `json:"pairId,omitempty"`
	Timestamp    int64  `json:"timestamp,omitempty"`
	AllowStale   bool   `json:"allowStale,omitempty"`
}

func (r SettlementRequest) toOutcomeRequest() (oracle.OutcomeRequest, error) {
	out := oracle.OutcomeRequest{
		CallID:       r.CallID,
		Outcome:      r.Outcome,
		TokenAddress: r.TokenAddress,
		PairID:       r.PairID,
		Timestamp:    r.Timestamp,
		AllowStale:   r.AllowStale,
	}
	if r.FinalPrice != "" {
		price, err := oracle.ParseFinalPrice(r.FinalPrice)
		if err != nil {
			return out, err
		}
		out.FinalPrice = price
	}
	return out, nil
}
