package rpc

import (
	"context"
	"errors"
	"net/http"
	"time"

	sdkrpc "github.com/make-software/casper-go-sdk/rpc"
	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/system"
)

const DefaultTimeout = 30 * time.Second

// Client talks JSON-RPC 2.0 to a Casper node over HTTP.
type Client struct {
	URL  string
	node sdkrpc.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return &Client{
		URL:  url,
		node: sdkrpc.NewClient(sdkrpc.NewHttpHandler(url, httpClient)),
	}
}

func (c *Client) PutDeploy(ctx context.Context, deploy types.Deploy) (key.Hash, error) {
	ctx, span := c.span(ctx, MethodPutDeploy)
	defer span.End()
	result, err := c.node.PutDeploy(ctx, deploy)
	if err != nil {
		return key.Hash{}, classify(MethodPutDeploy, err)
	}
	return result.DeployHash, nil
}

func (c *Client) GetDeploy(ctx context.Context, hash key.Hash) (GetDeployResult, error) {
	ctx, span := c.span(ctx, MethodGetDeploy)
	defer span.End()
	result, err := c.node.GetDeploy(ctx, hash.ToHex())
	if err != nil {
		return GetDeployResult{}, classify(MethodGetDeploy, err)
	}
	return result, nil
}

func (c *Client) GetStatus(ctx context.Context) (StatusResult, error) {
	ctx, span := c.span(ctx, MethodGetStatus)
	defer span.End()
	result, err := c.node.GetStatus(ctx)
	if err != nil {
		return StatusResult{}, classify(MethodGetStatus, err)
	}
	return result, nil
}

func (c *Client) span(ctx context.Context, method sdkrpc.Method) (context.Context, oteltrace.Span) {
	log.Ctx(ctx).Trace().Str("Method", string(method)).Str("URL", c.URL).Msg("sending rpc request")
	return system.NewSpan(ctx, system.GetTracer(), "pkg/casper/rpc.Client."+string(method),
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(attribute.String("rpc.method", string(method))))
}

// classify maps SDK errors onto the oracle's classes. Undecodable bodies are ParseFailure;
// transport failures, HTTP errors and node errors are NetworkFailure.
func classify(method sdkrpc.Method, err error) error {
	if errors.Is(err, sdkrpc.ErrRpcResponseUnmarshal) || errors.Is(err, sdkrpc.ErrResultUnmarshal) {
		return oracleerrors.NewParseFailure(string(method)+" response", err)
	}
	return oracleerrors.NewNetworkFailure(string(method), err)
}

var _ NodeClient = (*Client)(nil)
