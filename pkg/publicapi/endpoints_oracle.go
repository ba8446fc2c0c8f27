package publicapi

import (
	"context"
	"encoding/hex"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/backit-onchain/oracle/pkg/oracle"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/pricefeed"
	"github.com/backit-onchain/oracle/pkg/publicapi/apimodels"
	"github.com/backit-onchain/oracle/pkg/signer"
	"github.com/backit-onchain/oracle/pkg/store"
)

func (apiServer *APIServer) publicKey(context.Context) (oracle.PublicKeyInfo, error) {
	return apiServer.oracle.PublicKey()
}

func (apiServer *APIServer) price(ctx context.Context, req *http.Request) (apimodels.QuoteResponse, error) {
	pairID := mux.Vars(req)["pairID"]
	token := req.URL.Query().Get("token")
	quote := apiServer.oracle.Quote(ctx, token, pairID)
	return quoteResponse(pairID, token, quote), nil
}

func quoteResponse(pairID, token string, quote pricefeed.Quote) apimodels.QuoteResponse {
	return apimodels.QuoteResponse{
		PairID:       pairID,
		TokenAddress: token,
		PriceUSD:     quote.Price.String(),
		FinalPrice:   quote.Scaled(oracle.PriceDecimals).String(),
		Fresh:        quote.Fresh,
		Reason:       quote.Reason,
	}
}

func toOutcomeRequest(req apimodels.OutcomeRequest) (oracle.OutcomeRequest, error) {
	out := oracle.OutcomeRequest{
		CallID:       req.CallID,
		Outcome:      req.Outcome,
		TokenAddress: req.TokenAddress,
		PairID:       req.PairID,
		Timestamp:    req.Timestamp,
		AllowStale:   req.AllowStale,
	}
	if req.FinalPrice != "" {
		price, err := oracle.ParseFinalPrice(req.FinalPrice)
		if err != nil {
			return out, err
		}
		out.FinalPrice = price
	}
	return out, nil
}

func (apiServer *APIServer) signOutcome(ctx context.Context, req apimodels.OutcomeRequest) (apimodels.SignOutcomeResponse, error) {
	outcomeReq, err := toOutcomeRequest(req)
	if err != nil {
		return apimodels.SignOutcomeResponse{}, err
	}
	signed, err := apiServer.oracle.SignOutcome(ctx, outcomeReq)
	if err != nil {
		return apimodels.SignOutcomeResponse{}, err
	}
	res := apimodels.SignOutcomeResponse{
		CallID:     signed.Message.CallID,
		Outcome:    signed.Message.Outcome,
		FinalPrice: signed.Message.FinalPrice.String(),
		Timestamp:  signed.Message.Timestamp,
		Message:    string(signed.Message.CanonicalJSON()),
		Signature:  hex.EncodeToString(signed.Signature),
		PublicKey:  signed.PublicKey,
	}
	if signed.Quote != nil {
		q := quoteResponse(req.PairID, req.TokenAddress, *signed.Quote)
		res.Quote = &q
	}
	return res, nil
}

// verifyOutcome answers 200 for both valid and invalid signatures; only malformed input is an error.
func (apiServer *APIServer) verifyOutcome(_ context.Context, req apimodels.VerifyOutcomeRequest) (apimodels.VerifyOutcomeResponse, error) {
	price, err := oracle.ParseFinalPrice(req.FinalPrice)
	if err != nil {
		return apimodels.VerifyOutcomeResponse{}, err
	}
	sig, err := hex.DecodeString(req.Signature)
	if err != nil {
		return apimodels.VerifyOutcomeResponse{}, oracleerrors.Wrap(oracleerrors.BadRequest, err, "signature is not hex")
	}
	msg := signer.OutcomeMessage{
		CallID:     req.CallID,
		Outcome:    req.Outcome,
		FinalPrice: price,
		Timestamp:  req.Timestamp,
	}
	err = oracle.VerifyOutcome(req.PublicKey, msg, sig)
	if oracleerrors.CodeOf(err) == oracleerrors.ParseFailure {
		return apimodels.VerifyOutcomeResponse{}, err
	}
	if err != nil {
		return apimodels.VerifyOutcomeResponse{Valid: false, Reason: err.Error()}, nil
	}
	return apimodels.VerifyOutcomeResponse{Valid: true}, nil
}

func (apiServer *APIServer) settle(ctx context.Context, req apimodels.OutcomeRequest) (store.Settlement, error) {
	outcomeReq, err := toOutcomeRequest(req)
	if err != nil {
		return store.Settlement{}, err
	}
	return apiServer.oracle.Settle(ctx, outcomeReq)
}
