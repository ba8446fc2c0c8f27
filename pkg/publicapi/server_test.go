//go:build unit || !integration

package publicapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/make-software/casper-go-sdk/types/keypair"
	"github.com/phayes/freeport"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/blake2b"

	"github.com/backit-onchain/oracle/pkg/casper"
	"github.com/backit-onchain/oracle/pkg/casper/rpc"
	"github.com/backit-onchain/oracle/pkg/deploys"
	"github.com/backit-onchain/oracle/pkg/logger"
	"github.com/backit-onchain/oracle/pkg/oracle"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/pricefeed"
	"github.com/backit-onchain/oracle/pkg/publicapi"
	"github.com/backit-onchain/oracle/pkg/publicapi/apimodels"
	"github.com/backit-onchain/oracle/pkg/publicapi/client"
	"github.com/backit-onchain/oracle/pkg/settlement"
	"github.com/backit-onchain/oracle/pkg/signer"
	"github.com/backit-onchain/oracle/pkg/store"
	"github.com/backit-onchain/oracle/pkg/store/inmemory"
	"github.com/backit-onchain/oracle/pkg/system"
)

const (
	testSecret   = "unit-test-secret"
	contractHash = "hash-0101010101010101010101010101010101010101010101010101010101010101"
)

type ServerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	prices    *oracle.MockPriceSource
	submitter *oracle.MockOutcomeSubmitter
	node      *rpc.MockNodeClient
	key       keypair.PrivateKey
	cancel    context.CancelFunc
	cm        *system.CleanupManager
	client    *client.APIClient
	authed    *client.APIClient
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	logger.ConfigureTestLogging(s.T())
	s.ctrl = gomock.NewController(s.T())
	s.prices = oracle.NewMockPriceSource(s.ctrl)
	s.submitter = oracle.NewMockOutcomeSubmitter(s.ctrl)
	s.node = rpc.NewMockNodeClient(s.ctrl)

	secret, err := keypair.GeneratePrivateKey(keypair.ED25519)
	s.Require().NoError(err)
	s.key = secret

	service := oracle.NewService(oracle.Params{
		Prices:    s.prices,
		Signer:    signer.NewFromKeyPair(secret),
		Submitter: s.submitter,
		Store:     inmemory.NewInMemoryDatastore(),
	})

	port, err := freeport.GetFreePort()
	s.Require().NoError(err)

	config := publicapi.DefaultAPIServerConfig()
	config.JWTSecret = testSecret
	server, err := publicapi.NewAPIServer(publicapi.ServerParams{
		Address: fmt.Sprintf("127.0.0.1:%d", port),
		Config:  config,
		Oracle:  service,
		Builder: deploys.NewBuilder("casper-test", contractHash, contractHash),
		Node:    s.node,
	})
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.cm = system.NewCleanupManager()
	go func() {
		_ = server.ListenAndServe(ctx, s.cm)
	}()

	s.client = client.NewAPIClient(server.GetURI())
	token, err := publicapi.GenerateToken(testSecret, "keeper")
	s.Require().NoError(err)
	s.authed = s.client.WithToken(token)

	s.Require().Eventually(func() bool {
		alive, _ := s.client.Alive(context.Background())
		return alive
	}, 10*time.Second, 50*time.Millisecond)
}

func (s *ServerSuite) TearDownTest() {
	s.cancel()
	s.cm.Cleanup(context.Background())
}

func (s *ServerSuite) TestVersion() {
	info, err := s.client.Version(context.Background())
	s.Require().NoError(err)
	s.NotEmpty(info.GitVersion)
}

func (s *ServerSuite) TestReady() {
	s.node.EXPECT().GetStatus(gomock.Any()).Return(rpc.StatusResult{ChainSpecName: "casper-test", APIVersion: "1.5.6"}, nil)
	res, err := s.client.Ready(context.Background())
	s.Require().NoError(err)
	s.Equal("OK", res.Status)
	s.Equal("casper-test", res.ChainName)
}

func (s *ServerSuite) TestNotReadyWhenNodeUnreachable() {
	s.node.EXPECT().GetStatus(gomock.Any()).Return(rpc.StatusResult{}, errors.New("connection refused")).AnyTimes()
	_, err := s.client.Ready(context.Background())
	s.Equal(oracleerrors.NetworkFailure, oracleerrors.CodeOf(err))
}

func (s *ServerSuite) TestPublicKey() {
	info, err := s.client.PublicKey(context.Background())
	s.Require().NoError(err)
	s.Equal(casper.RawPublicKeyHex(s.key.PublicKey()), info.PublicKey)
	s.Equal(s.key.PublicKey().ToHex(), info.Account)
	s.Equal("ed25519", info.Algorithm)
}

func (s *ServerSuite) TestPrice() {
	s.prices.EXPECT().FetchPrice(gomock.Any(), "0xtoken", "0xpair").
		Return(pricefeed.Fresh(decimal.RequireFromString("2.5")))

	quote, err := s.client.Price(context.Background(), "0xpair", "0xtoken")
	s.Require().NoError(err)
	s.Equal("2.5", quote.PriceUSD)
	s.Equal("250000000", quote.FinalPrice)
	s.True(quote.Fresh)
	s.Empty(quote.Reason)
}

func (s *ServerSuite) TestSignRequiresToken() {
	_, err := s.client.SignOutcome(context.Background(), apimodels.OutcomeRequest{CallID: 1, FinalPrice: "10"})
	s.Equal(oracleerrors.Unauthorized, oracleerrors.CodeOf(err))

	_, err = s.client.WithToken("not-a-token").SignOutcome(context.Background(),
		apimodels.OutcomeRequest{CallID: 1, FinalPrice: "10"})
	s.Equal(oracleerrors.Unauthorized, oracleerrors.CodeOf(err))
}

func (s *ServerSuite) TestSignAndVerify() {
	ctx := context.Background()
	signed, err := s.authed.SignOutcome(ctx, apimodels.OutcomeRequest{
		CallID: 7, Outcome: true, FinalPrice: "1500", Timestamp: 1700000000,
	})
	s.Require().NoError(err)
	s.Equal(`{"callId":7,"outcome":true,"finalPrice":"1500","timestamp":1700000000}`, signed.Message)
	s.Len(signed.PublicKey, 64)
	s.Len(signed.Signature, 128)
	s.Nil(signed.Quote)

	verify := apimodels.VerifyOutcomeRequest{
		PublicKey:  signed.PublicKey,
		CallID:     7,
		Outcome:    true,
		FinalPrice: "1500",
		Timestamp:  1700000000,
		Signature:  signed.Signature,
	}
	res, err := s.client.VerifyOutcome(ctx, verify)
	s.Require().NoError(err)
	s.True(res.Valid)

	verify.Outcome = false
	res, err = s.client.VerifyOutcome(ctx, verify)
	s.Require().NoError(err)
	s.False(res.Valid)
	s.NotEmpty(res.Reason)

	verify.PublicKey = "zz"
	_, err = s.client.VerifyOutcome(ctx, verify)
	s.Equal(oracleerrors.ParseFailure, oracleerrors.CodeOf(err))
}

func (s *ServerSuite) TestSignRejectsBadPrice() {
	_, err := s.authed.SignOutcome(context.Background(), apimodels.OutcomeRequest{CallID: 1, FinalPrice: "1.5"})
	s.Equal(oracleerrors.BadRequest, oracleerrors.CodeOf(err))
}

func (s *ServerSuite) TestSettleAndQuery() {
	ctx := context.Background()
	deployHash := key.Hash(blake2b.Sum256([]byte("settle")))
	s.prices.EXPECT().FetchPrice(gomock.Any(), "", "0xpair").
		Return(pricefeed.Fresh(decimal.RequireFromString("0.25")))
	s.submitter.EXPECT().SubmitOutcome(gomock.Any(), uint64(3), true, gomock.Any(), gomock.Any()).
		Return(deployHash, nil)

	record, err := s.authed.Settle(ctx, apimodels.OutcomeRequest{CallID: 3, Outcome: true, PairID: "0xpair"})
	s.Require().NoError(err)
	s.Equal(deployHash.String(), record.DeployHash)
	s.Equal("25000000", record.FinalPrice)
	s.Equal(settlement.StatusPending, record.Status)
	s.True(record.PriceFresh)

	byCall, err := s.client.Settlement(ctx, 3)
	s.Require().NoError(err)
	s.Equal(record.ID, byCall.ID)

	all, err := s.client.Settlements(ctx, store.SettlementQuery{Status: settlement.StatusPending})
	s.Require().NoError(err)
	s.Len(all, 1)

	none, err := s.client.Settlements(ctx, store.SettlementQuery{Status: settlement.StatusSuccess})
	s.Require().NoError(err)
	s.Empty(none)

	_, err = s.client.Settlement(ctx, 999)
	s.Equal(oracleerrors.NotFound, oracleerrors.CodeOf(err))
}

func (s *ServerSuite) TestSettleStalePriceNeedsOptIn() {
	ctx := context.Background()
	deployHash := key.Hash(blake2b.Sum256([]byte("stale")))
	s.prices.EXPECT().FetchPrice(gomock.Any(), "", "0xpair").
		Return(pricefeed.Stale(pricefeed.FallbackPrice, "feed down")).Times(2)

	_, err := s.authed.Settle(ctx, apimodels.OutcomeRequest{CallID: 5, PairID: "0xpair"})
	s.Equal(oracleerrors.StalePrice, oracleerrors.CodeOf(err))

	s.submitter.EXPECT().SubmitOutcome(gomock.Any(), uint64(5), false, gomock.Any(), gomock.Any()).
		Return(deployHash, nil)
	record, err := s.authed.Settle(ctx, apimodels.OutcomeRequest{CallID: 5, PairID: "0xpair", AllowStale: true})
	s.Require().NoError(err)
	s.False(record.PriceFresh)
	s.Equal(deployHash.String(), record.DeployHash)
}

func (s *ServerSuite) TestDeployStatus() {
	ctx := context.Background()
	hash := key.Hash(blake2b.Sum256([]byte("status")))
	s.submitter.EXPECT().GetDeployStatus(gomock.Any(), hash).Return(settlement.StatusPending)

	res, err := s.client.DeployStatus(ctx, hash)
	s.Require().NoError(err)
	s.Equal(hash.String(), res.DeployHash)
	s.Equal(settlement.StatusPending, res.Status)
}

func (s *ServerSuite) TestCreateCallDeploy() {
	res, err := s.client.CreateCall(context.Background(), apimodels.CreateCallRequest{
		PublicKey:    s.key.PublicKey().ToHex(),
		EndTS:        1800000000,
		TokenAddress: "0xtoken",
		PairID:       "0xpair",
		IPFSCID:      "bafy",
		Stake:        "10",
	})
	s.Require().NoError(err)
	s.NotEqual(key.Hash{}, res.DeployHash)

	var deploy map[string]any
	s.Require().NoError(json.Unmarshal(res.Deploy, &deploy))
	s.Equal(res.DeployHash.String(), deploy["hash"])
	s.Contains(string(res.Deploy), deploys.EntryPointCreateCall)
	s.Contains(string(res.Deploy), `"approvals":[]`)
}

func (s *ServerSuite) TestStakeRejectsInvalidInput() {
	ctx := context.Background()
	_, err := s.client.Stake(ctx, apimodels.StakeRequest{PublicKey: s.key.PublicKey().ToHex(), CallID: 1, Stake: "abc"})
	s.Equal(oracleerrors.BadRequest, oracleerrors.CodeOf(err))

	_, err = s.client.Stake(ctx, apimodels.StakeRequest{PublicKey: "nope", CallID: 1, Stake: "1"})
	s.Equal(oracleerrors.BadRequest, oracleerrors.CodeOf(err))

	res, err := s.client.Withdraw(ctx, apimodels.WithdrawRequest{PublicKey: s.key.PublicKey().ToHex(), CallID: 1})
	s.Require().NoError(err)
	s.Contains(string(res.Deploy), deploys.EntryPointWithdrawPayout)
}

func (s *ServerSuite) TestPutDeploy() {
	ctx := context.Background()
	builder := deploys.NewBuilder("casper-test", contractHash, contractHash)
	deploy, err := builder.BuildWithdrawPayout(s.key.PublicKey(), 4)
	s.Require().NoError(err)

	unsigned, err := json.Marshal(deploy)
	s.Require().NoError(err)
	_, err = s.client.PutDeploy(ctx, unsigned)
	s.Equal(oracleerrors.BadRequest, oracleerrors.CodeOf(err))

	s.Require().NoError(deploy.SignDeploy(s.key))
	signed, err := json.Marshal(deploy)
	s.Require().NoError(err)

	tampered := *deploy
	tampered.Header.ChainName = "casper"
	forged, err := json.Marshal(tampered)
	s.Require().NoError(err)
	_, err = s.client.PutDeploy(ctx, forged)
	s.Equal(oracleerrors.BadRequest, oracleerrors.CodeOf(err))

	s.node.EXPECT().PutDeploy(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sent types.Deploy) (key.Hash, error) {
			s.Equal(deploy.Hash, sent.Hash)
			s.Len(sent.Approvals, 1)
			return sent.Hash, nil
		})

	hash, err := s.client.PutDeploy(ctx, signed)
	s.Require().NoError(err)
	s.Equal(deploy.Hash, hash)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	_, err := publicapi.GenerateToken("", "keeper")
	require.Error(t, err)
}
