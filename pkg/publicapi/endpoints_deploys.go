package publicapi

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/make-software/casper-go-sdk/types/keypair"

	"github.com/backit-onchain/oracle/pkg/casper"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/publicapi/apimodels"
)

func (apiServer *APIServer) deployStatus(ctx context.Context, req *http.Request) (apimodels.DeployStatusResponse, error) {
	hash, err := casper.ParseHash(mux.Vars(req)["hash"])
	if err != nil {
		return apimodels.DeployStatusResponse{}, oracleerrors.Wrap(oracleerrors.BadRequest, err, "invalid deploy hash")
	}
	return apimodels.DeployStatusResponse{
		DeployHash: hash.String(),
		Status:     apiServer.oracle.DeployStatus(ctx, hash),
	}, nil
}

func parseSender(publicKey string) (keypair.PublicKey, error) {
	if publicKey == "" {
		return keypair.PublicKey{}, oracleerrors.New(oracleerrors.BadRequest, "publicKey is required")
	}
	pub, err := casper.ParsePublicKey(publicKey)
	if err != nil {
		return keypair.PublicKey{}, oracleerrors.Wrap(oracleerrors.BadRequest, err, "invalid public key")
	}
	return pub, nil
}

func parseStake(cspr string) (*big.Int, error) {
	motes, err := casper.CSPRToMotes(cspr)
	if err != nil {
		return nil, oracleerrors.Wrap(oracleerrors.BadRequest, err, "invalid stake %q", cspr)
	}
	if motes.Sign() <= 0 {
		return nil, oracleerrors.New(oracleerrors.BadRequest, "stake must be positive")
	}
	return motes, nil
}

func deployResponse(deploy *types.Deploy, err error) (apimodels.DeployResponse, error) {
	if err != nil {
		return apimodels.DeployResponse{}, err
	}
	raw, err := json.Marshal(deploy)
	if err != nil {
		return apimodels.DeployResponse{}, err
	}
	return apimodels.DeployResponse{DeployHash: deploy.Hash, Deploy: raw}, nil
}

func (apiServer *APIServer) createCall(_ context.Context, req apimodels.CreateCallRequest) (apimodels.DeployResponse, error) {
	sender, err := parseSender(req.PublicKey)
	if err != nil {
		return apimodels.DeployResponse{}, err
	}
	stake, err := parseStake(req.Stake)
	if err != nil {
		return apimodels.DeployResponse{}, err
	}
	if req.PairID == "" {
		return apimodels.DeployResponse{}, oracleerrors.New(oracleerrors.BadRequest, "pairId is required")
	}
	return deployResponse(apiServer.builder.BuildCreateCall(sender, req.EndTS, req.TokenAddress, req.PairID, req.IPFSCID, stake))
}

func (apiServer *APIServer) stake(_ context.Context, req apimodels.StakeRequest) (apimodels.DeployResponse, error) {
	sender, err := parseSender(req.PublicKey)
	if err != nil {
		return apimodels.DeployResponse{}, err
	}
	stake, err := parseStake(req.Stake)
	if err != nil {
		return apimodels.DeployResponse{}, err
	}
	return deployResponse(apiServer.builder.BuildStakeOnCall(sender, req.CallID, req.Position, stake))
}

func (apiServer *APIServer) withdraw(_ context.Context, req apimodels.WithdrawRequest) (apimodels.DeployResponse, error) {
	sender, err := parseSender(req.PublicKey)
	if err != nil {
		return apimodels.DeployResponse{}, err
	}
	return deployResponse(apiServer.builder.BuildWithdrawPayout(sender, req.CallID))
}

// signedDeploy is the part of a wallet-signed deploy checked before it is decoded in full.
type signedDeploy struct {
	Hash   key.Hash `json:"hash"`
	Header struct {
		Account string `json:"account"`
	} `json:"header"`
	Approvals []struct {
		Signer string `json:"signer"`
	} `json:"approvals"`
}

func decodeSignedDeploy(raw json.RawMessage) (types.Deploy, error) {
	var check signedDeploy
	if err := json.Unmarshal(raw, &check); err != nil {
		return types.Deploy{}, oracleerrors.Wrap(oracleerrors.BadRequest, err, "invalid deploy")
	}
	if check.Hash == (key.Hash{}) {
		return types.Deploy{}, oracleerrors.New(oracleerrors.BadRequest, "deploy has no hash")
	}
	if check.Header.Account == "" {
		return types.Deploy{}, oracleerrors.New(oracleerrors.BadRequest, "deploy has no account")
	}
	if len(check.Approvals) == 0 {
		return types.Deploy{}, oracleerrors.New(oracleerrors.BadRequest, "deploy is not signed")
	}
	for _, approval := range check.Approvals {
		if approval.Signer == "" {
			return types.Deploy{}, oracleerrors.New(oracleerrors.BadRequest, "deploy approval has no signer")
		}
	}

	var deploy types.Deploy
	if err := json.Unmarshal(raw, &deploy); err != nil {
		return types.Deploy{}, oracleerrors.Wrap(oracleerrors.BadRequest, err, "invalid deploy")
	}
	valid, err := deploy.ValidateDeploy()
	if err != nil {
		return types.Deploy{}, oracleerrors.Wrap(oracleerrors.BadRequest, err, "invalid deploy")
	}
	if !valid {
		return types.Deploy{}, oracleerrors.New(oracleerrors.BadRequest, "deploy hash or approvals do not verify")
	}
	return deploy, nil
}

func (apiServer *APIServer) putDeploy(ctx context.Context, req apimodels.PutDeployRequest) (apimodels.PutDeployResponse, error) {
	if len(req.Deploy) == 0 {
		return apimodels.PutDeployResponse{}, oracleerrors.New(oracleerrors.BadRequest, "deploy is required")
	}
	deploy, err := decodeSignedDeploy(req.Deploy)
	if err != nil {
		return apimodels.PutDeployResponse{}, err
	}
	hash, err := apiServer.node.PutDeploy(ctx, deploy)
	if err != nil {
		return apimodels.PutDeployResponse{}, err
	}
	return apimodels.PutDeployResponse{DeployHash: hash}, nil
}
