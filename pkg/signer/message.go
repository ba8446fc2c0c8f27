package signer

import (
	"encoding/json"
	"math/big"
)

// OutcomeMessage is the statement the oracle attests to when settling a call.
type OutcomeMessage struct {
	CallID     uint64
	Outcome    bool
	FinalPrice *big.Int
	Timestamp  int64
}

// canonicalOutcome fixes the key order and renders the price as a decimal string.
type canonicalOutcome struct {
	CallID     uint64 `json:"callId"`
	Outcome    bool   `json:"outcome"`
	FinalPrice string `json:"finalPrice"`
	Timestamp  int64  `json:"timestamp"`
}

// CanonicalJSON returns the exact bytes that get signed, e.g.
// {"callId":7,"outcome":true,"finalPrice":"1500","timestamp":1700000000}
func (m OutcomeMessage) CanonicalJSON() []byte {
	price := "0"
	if m.FinalPrice != nil {
		price = m.FinalPrice.String()
	}
	// marshalling a struct of plain fields cannot fail
	b, _ := json.Marshal(canonicalOutcome{
		CallID:     m.CallID,
		Outcome:    m.Outcome,
		FinalPrice: price,
		Timestamp:  m.Timestamp,
	})
	return b
}
