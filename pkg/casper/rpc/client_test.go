//go:build unit || !integration

package rpc

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/clvalue"
	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/make-software/casper-go-sdk/types/keypair"
	"github.com/stretchr/testify/suite"

	"github.com/backit-onchain/oracle/pkg/logger"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
)

var testHash = key.Hash{0xde, 0xad, 0xbe, 0xef}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type ClientSuite struct {
	suite.Suite
	handler  func(req rpcRequest) (int, string)
	requests []rpcRequest
	server   *httptest.Server
	client   *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	logger.ConfigureTestLogging(s.T())
	s.requests = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		s.Require().NoError(err)
		var req rpcRequest
		s.Require().NoError(json.Unmarshal(body, &req))
		s.requests = append(s.requests, req)

		status, resp := s.handler(req)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	s.client = NewClient(s.server.URL, 0)
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) signedDeploy() types.Deploy {
	secret, err := keypair.GeneratePrivateKey(keypair.ED25519)
	s.Require().NoError(err)
	header := types.DefaultHeader()
	header.Account = secret.PublicKey()
	header.ChainName = "casper-test"
	args := &types.Args{}
	args.AddArgument("call_id", *clvalue.NewCLUInt64(7))
	d, err := types.MakeDeploy(header, types.StandardPayment(big.NewInt(5_000_000_000)), types.ExecutableDeployItem{
		StoredContractByHash: &types.StoredContractByHash{
			Hash:       key.ContractHash{Hash: testHash},
			EntryPoint: "submit_outcome",
			Args:       args,
		},
	})
	s.Require().NoError(err)
	s.Require().NoError(d.SignDeploy(secret))
	return *d
}

func (s *ClientSuite) TestPutDeploy() {
	deploy := s.signedDeploy()
	s.handler = func(req rpcRequest) (int, string) {
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{"api_version":"1.5.6","deploy_hash":"` + deploy.Hash.ToHex() + `"}}`
	}

	hash, err := s.client.PutDeploy(context.Background(), deploy)
	s.Require().NoError(err)
	s.Equal(deploy.Hash, hash)

	s.Require().Len(s.requests, 1)
	s.Equal(string(MethodPutDeploy), s.requests[0].Method)
	s.Equal("2.0", s.requests[0].JSONRPC)

	var params struct {
		Deploy struct {
			Hash    string `json:"hash"`
			Session struct {
				StoredContractByHash struct {
					Hash       string `json:"hash"`
					EntryPoint string `json:"entry_point"`
				} `json:"StoredContractByHash"`
			} `json:"session"`
		} `json:"deploy"`
	}
	s.Require().NoError(json.Unmarshal(s.requests[0].Params, &params))
	s.Equal(deploy.Hash.ToHex(), params.Deploy.Hash)
	s.Equal(testHash.ToHex(), params.Deploy.Session.StoredContractByHash.Hash)
	s.Equal("submit_outcome", params.Deploy.Session.StoredContractByHash.EntryPoint)
}

func (s *ClientSuite) TestGetDeploySuccess() {
	blockHash := key.Hash{0xbb}
	s.handler = func(req rpcRequest) (int, string) {
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{
			"api_version":"1.5.6",
			"deploy":{"hash":"` + testHash.ToHex() + `"},
			"execution_results":[{"block_hash":"` + blockHash.ToHex() + `","result":{"Success":{"effect":{"operations":[],"transforms":[]},"transfers":[],"cost":"123"}}}]
		}}`
	}

	result, err := s.client.GetDeploy(context.Background(), testHash)
	s.Require().NoError(err)
	s.Require().Len(result.ExecutionResults, 1)
	s.Equal(blockHash, result.ExecutionResults[0].BlockHash)
	s.Require().NotNil(result.ExecutionResults[0].Result.Success)
	s.Nil(result.ExecutionResults[0].Result.Failure)
	s.Equal(uint64(123), result.ExecutionResults[0].Result.Success.Cost)

	s.JSONEq(`{"deploy_hash":"`+testHash.ToHex()+`"}`, string(s.requests[0].Params))
}

func (s *ClientSuite) TestGetStatus() {
	s.handler = func(req rpcRequest) (int, string) {
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{"api_version":"1.5.6","chainspec_name":"casper-test","build_version":"1.5.6-abc"}}`
	}
	status, err := s.client.GetStatus(context.Background())
	s.Require().NoError(err)
	s.Equal("casper-test", status.ChainSpecName)
	s.Equal("1.5.6", status.APIVersion)
	s.Equal(string(MethodGetStatus), s.requests[0].Method)
}

func (s *ClientSuite) TestRPCErrorIsNetworkFailure() {
	s.handler = func(req rpcRequest) (int, string) {
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"invalid deploy"}}`
	}

	_, err := s.client.PutDeploy(context.Background(), s.signedDeploy())
	s.Require().Error(err)
	s.ErrorIs(err, oracleerrors.ErrNetworkFailure)
	s.Contains(err.Error(), "invalid deploy")
}

func (s *ClientSuite) TestHTTPErrorIsNetworkFailure() {
	s.handler = func(req rpcRequest) (int, string) {
		return http.StatusBadGateway, `upstream unavailable`
	}

	_, err := s.client.GetStatus(context.Background())
	s.ErrorIs(err, oracleerrors.ErrNetworkFailure)
}

func (s *ClientSuite) TestGarbageIsParseFailure() {
	s.handler = func(req rpcRequest) (int, string) {
		return http.StatusOK, `<html>not json</html>`
	}

	_, err := s.client.GetDeploy(context.Background(), testHash)
	s.ErrorIs(err, oracleerrors.ErrParseFailure)
}

func (s *ClientSuite) TestMissingResultIsParseFailure() {
	s.handler = func(req rpcRequest) (int, string) {
		return http.StatusOK, `{"jsonrpc":"2.0","id":1}`
	}

	_, err := s.client.GetDeploy(context.Background(), testHash)
	s.ErrorIs(err, oracleerrors.ErrParseFailure)
}

func (s *ClientSuite) TestUnreachableNodeIsNetworkFailure() {
	s.handler = func(req rpcRequest) (int, string) { return http.StatusOK, `{}` }
	client := NewClient("http://127.0.0.1:1", 0)

	_, err := client.GetStatus(context.Background())
	s.ErrorIs(err, oracleerrors.ErrNetworkFailure)
}
