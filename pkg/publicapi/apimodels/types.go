// Package apimodels holds the request and response bodies of the public API.
package apimodels

import (
	"encoding/json"

	"github.com/make-software/casper-go-sdk/types/key"

	"github.com/backit-onchain/oracle/pkg/settlement"
)

type HealthResponse struct {
	Status     string `json:"status"`
	ChainName  string `json:"chainName,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`
}

type QuoteResponse struct {
	PairID       string `json:"pairId"`
	TokenAddress string `json:"tokenAddress,omitempty"`
	PriceUSD     string `json:"priceUsd"`
	// FinalPrice is PriceUSD scaled to the on-chain integer representation.
	FinalPrice string `json:"finalPrice"`
	Fresh      bool   `json:"fresh"`
	Reason     string `json:"reason,omitempty"`
}

// OutcomeRequest asks the oracle to sign, or settle, the outcome of a call. When FinalPrice is empty
// the price is looked up on PairID. AllowStale lets a settlement go through on a fallback price.
type OutcomeRequest struct {
	CallID       uint64 `json:"callId"`
	Outcome      bool   `json:"outcome"`
	FinalPrice   string `json:"finalPrice,omitempty"`
	TokenAddress string `json:"tokenAddress,omitempty"`
	PairID       string `json:"pairId,omitempty"`
	Timestamp    int64  `json:"timestamp,omitempty"`
	AllowStale   bool   `json:"allowStale,omitempty"`
}

type SignOutcomeResponse struct {
	CallID     uint64 `json:"callId"`
	Outcome    bool   `json:"outcome"`
	FinalPrice string `json:"finalPrice"`
	Timestamp  int64  `json:"timestamp"`
	// Message is the canonical JSON that was signed.
	Message   string         `json:"message"`
	Signature string         `json:"signature"`
	PublicKey string         `json:"publicKey"`
	Quote     *QuoteResponse `json:"quote,omitempty"`
}

type VerifyOutcomeRequest struct {
	PublicKey  string `json:"publicKey"`
	CallID     uint64 `json:"callId"`
	Outcome    bool   `json:"outcome"`
	FinalPrice string `json:"finalPrice"`
	Timestamp  int64  `json:"timestamp"`
	Signature  string `json:"signature"`
}

type VerifyOutcomeResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type DeployStatusResponse struct {
	DeployHash string                  `json:"deployHash"`
	Status     settlement.DeployStatus `json:"status"`
}

// CreateCallRequest opens a call. PublicKey is the tagged hex key of the wallet that will sign the
// deploy and Stake is in CSPR.
type CreateCallRequest struct {
	PublicKey    string `json:"publicKey"`
	EndTS        uint64 `json:"endTs"`
	TokenAddress string `json:"tokenAddress"`
	PairID       string `json:"pairId"`
	IPFSCID      string `json:"ipfsCid"`
	Stake        string `json:"stake"`
}

type StakeRequest struct {
	PublicKey string `json:"publicKey"`
	CallID    uint64 `json:"callId"`
	Position  bool   `json:"position"`
	Stake     string `json:"stake"`
}

type WithdrawRequest struct {
	PublicKey string `json:"publicKey"`
	CallID    uint64 `json:"callId"`
}

// DeployResponse carries an unsigned deploy for a wallet to sign.
type DeployResponse struct {
	DeployHash key.Hash        `json:"deployHash"`
	Deploy     json.RawMessage `json:"deploy"`
}

// PutDeployRequest forwards a deploy signed by a wallet to the node.
type PutDeployRequest struct {
	Deploy json.RawMessage `json:"deploy"`
}

type PutDeployResponse struct {
	DeployHash key.Hash `json:"deployHash"`
}
