// Package client talks to the oracle's public API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/make-software/casper-go-sdk/types/key"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/backit-onchain/oracle/pkg/oracle"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/publicapi"
	"github.com/backit-onchain/oracle/pkg/publicapi/apimodels"
	"github.com/backit-onchain/oracle/pkg/store"
	"github.com/backit-onchain/oracle/pkg/util/closer"
	"github.com/backit-onchain/oracle/pkg/version"
)

const (
	DefaultRetryMax = 3
	DefaultTimeout  = 30 * time.Second
)

// APIClient is a utility for interacting with a node's API server.
type APIClient struct {
	BaseURI string
	// Token is sent as a bearer token, when set.
	Token string

	client *retryablehttp.Client
}

// NewAPIClient returns a new client for a node running at the given base URI, e.g. http://localhost:8080
func NewAPIClient(baseURI string) *APIClient {
	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{
		Timeout:   DefaultTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	client.RetryMax = DefaultRetryMax
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil
	client.CheckRetry = checkRetry
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &APIClient{
		BaseURI: baseURI,
		client:  client,
	}
}

// WithToken returns a copy of the client authenticating with token.
func (apiClient *APIClient) WithToken(token string) *APIClient {
	c := *apiClient
	c.Token = token
	return &c
}

// checkRetry only retries requests that cannot have had an effect: failed connections, and
// server errors answering a GET.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err == nil && resp != nil && resp.Request != nil && resp.Request.Method != http.MethodGet {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func (apiClient *APIClient) Alive(ctx context.Context) (bool, error) {
	var res apimodels.HealthResponse
	if err := apiClient.get(ctx, "/livez", nil, &res); err != nil {
		return false, nil //nolint:nilerr // an unreachable server is simply not alive
	}
	return res.Status == "OK", nil
}

func (apiClient *APIClient) Ready(ctx context.Context) (apimodels.HealthResponse, error) {
	var res apimodels.HealthResponse
	err := apiClient.get(ctx, "/readyz", nil, &res)
	return res, err
}

func (apiClient *APIClient) Version(ctx context.Context) (*version.BuildVersionInfo, error) {
	var res version.BuildVersionInfo
	if err := apiClient.get(ctx, "/version", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (apiClient *APIClient) PublicKey(ctx context.Context) (oracle.PublicKeyInfo, error) {
	var res oracle.PublicKeyInfo
	err := apiClient.get(ctx, "/oracle/public-key", nil, &res)
	return res, err
}

func (apiClient *APIClient) Price(ctx context.Context, pairID, tokenAddress string) (apimodels.QuoteResponse, error) {
	var res apimodels.QuoteResponse
	query := url.Values{}
	if tokenAddress != "" {
		query.Set("token", tokenAddress)
	}
	err := apiClient.get(ctx, "/prices/"+url.PathEscape(pairID), query, &res)
	return res, err
}

func (apiClient *APIClient) SignOutcome(ctx context.Context, req apimodels.OutcomeRequest) (apimodels.SignOutcomeResponse, error) {
	var res apimodels.SignOutcomeResponse
	err := apiClient.post(ctx, "/outcomes/sign", req, &res)
	return res, err
}

func (apiClient *APIClient) VerifyOutcome(
	ctx context.Context, req apimodels.VerifyOutcomeRequest,
) (apimodels.VerifyOutcomeResponse, error) {
	var res apimodels.VerifyOutcomeResponse
	err := apiClient.post(ctx, "/outcomes/verify", req, &res)
	return res, err
}

// Settle signs and submits an outcome, returning the recorded settlement.
func (apiClient *APIClient) Settle(ctx context.Context, req apimodels.OutcomeRequest) (store.Settlement, error) {
	var res store.Settlement
	err := apiClient.post(ctx, "/outcomes", req, &res)
	return res, err
}

func (apiClient *APIClient) DeployStatus(ctx context.Context, hash key.Hash) (apimodels.DeployStatusResponse, error) {
	var res apimodels.DeployStatusResponse
	err := apiClient.get(ctx, "/deploys/"+hash.String()+"/status", nil, &res)
	return res, err
}

func (apiClient *APIClient) CreateCall(ctx context.Context, req apimodels.CreateCallRequest) (apimodels.DeployResponse, error) {
	var res apimodels.DeployResponse
	err := apiClient.post(ctx, "/deploys/create-call", req, &res)
	return res, err
}

func (apiClient *APIClient) Stake(ctx context.Context, req apimodels.StakeRequest) (apimodels.DeployResponse, error) {
	var res apimodels.DeployResponse
	err := apiClient.post(ctx, "/deploys/stake", req, &res)
	return res, err
}

func (apiClient *APIClient) Withdraw(ctx context.Context, req apimodels.WithdrawRequest) (apimodels.DeployResponse, error) {
	var res apimodels.DeployResponse
	err := apiClient.post(ctx, "/deploys/withdraw", req, &res)
	return res, err
}

func (apiClient *APIClient) PutDeploy(ctx context.Context, deploy json.RawMessage) (key.Hash, error) {
	var res apimodels.PutDeployResponse
	err := apiClient.post(ctx, "/deploys", apimodels.PutDeployRequest{Deploy: deploy}, &res)
	return res.DeployHash, err
}

func (apiClient *APIClient) Settlements(ctx context.Context, query store.SettlementQuery) ([]store.Settlement, error) {
	values := url.Values{}
	if query.Status != "" {
		values.Set("status", query.Status.String())
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		values.Set("offset", strconv.Itoa(query.Offset))
	}
	if query.SortReverse {
		values.Set("reverse", "true")
	}
	var res []store.Settlement
	err := apiClient.get(ctx, "/settlements", values, &res)
	return res, err
}

func (apiClient *APIClient) Settlement(ctx context.Context, callID uint64) (store.Settlement, error) {
	var res store.Settlement
	err := apiClient.get(ctx, "/settlements/"+strconv.FormatUint(callID, 10), nil, &res)
	return res, err
}

func (apiClient *APIClient) get(ctx context.Context, api string, query url.Values, resData any) error {
	addr := apiClient.BaseURI + publicapi.APIPrefix + api
	if len(query) > 0 {
		addr += "?" + query.Encode()
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("publicapi: error creating get request: %w", err)
	}
	return apiClient.do(ctx, req, resData)
}

func (apiClient *APIClient) post(ctx context.Context, api string, reqData, resData any) error {
	body, err := json.Marshal(reqData)
	if err != nil {
		return fmt.Errorf("publicapi: error encoding request body: %w", err)
	}
	addr := apiClient.BaseURI + publicapi.APIPrefix + api
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, addr, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("publicapi: error creating post request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return apiClient.do(ctx, req, resData)
}

func (apiClient *APIClient) do(ctx context.Context, req *retryablehttp.Request, resData any) error {
	if apiClient.Token != "" {
		req.Header.Set("Authorization", "Bearer "+apiClient.Token)
	}
	res, err := apiClient.client.Do(req)
	if err != nil {
		return oracleerrors.NewNetworkFailure(req.Method+" "+req.URL.Path, err)
	}
	defer closer.DrainAndCloseWithLogOnError(ctx, "response body", res.Body)

	if res.StatusCode >= http.StatusBadRequest {
		return decodeError(res)
	}
	if err := json.NewDecoder(res.Body).Decode(resData); err != nil {
		return oracleerrors.NewParseFailure("api response", err)
	}
	return nil
}

// decodeError turns an error response back into a coded error.
func decodeError(res *http.Response) error {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return oracleerrors.NewNetworkFailure("reading error response", err)
	}
	var errResponse oracleerrors.ErrorResponse
	if err := json.Unmarshal(body, &errResponse); err != nil || errResponse.Code == "" {
		return oracleerrors.New(codeForStatus(res.StatusCode), "server error: %s: %s", res.Status, bytes.TrimSpace(body))
	}
	e := oracleerrors.New(errResponse.Code, "%s", errResponse.Message)
	for k, v := range errResponse.Details {
		e = e.WithDetail(k, v)
	}
	return e
}

func codeForStatus(status int) oracleerrors.ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return oracleerrors.BadRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return oracleerrors.Unauthorized
	case http.StatusNotFound:
		return oracleerrors.NotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return oracleerrors.NetworkFailure
	default:
		return oracleerrors.Unknown
	}
}
