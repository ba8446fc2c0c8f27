package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/backit-onchain/oracle/pkg/system"
	"github.com/backit-onchain/oracle/pkg/util/closer"
)

const (
	DefaultBaseURL = "https://api.dexscreener.com"
	DefaultChain   = "base"
	DefaultTimeout = 10 * time.Second

	maxBodySize = 4 << 20
)

type Params struct {
	BaseURL string
	Chain   string
	Timeout time.Duration
}

// Client fetches pair prices from DexScreener. A fetch is a single attempt and never fails:
// any problem yields a stale quote at FallbackPrice.
type Client struct {
	baseURL    string
	chain      string
	httpClient *http.Client
}

func NewClient(params Params) *Client {
	if params.BaseURL == "" {
		params.BaseURL = DefaultBaseURL
	}
	if params.Chain == "" {
		params.Chain = DefaultChain
	}
	if params.Timeout <= 0 {
		params.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(params.BaseURL, "/"),
		chain:   params.Chain,
		httpClient: &http.Client{
			Timeout:   params.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type pairResponse struct {
	Pair *struct {
		PriceUSD string `json:"priceUsd"`
	} `json:"pair"`
}

// FetchPrice returns the USD price of the pair. The token address is informational only; the pair id
// selects the market.
func (c *Client) FetchPrice(ctx context.Context, tokenAddress, pairID string) Quote {
	ctx, span := system.NewSpan(ctx, system.GetTracer(), "pkg/pricefeed.Client.FetchPrice")
	defer span.End()

	logger := log.Ctx(ctx).With().Str("Token", tokenAddress).Str("Pair", pairID).Logger()
	logger.Debug().Msg("fetching price")

	price, err := c.fetch(ctx, pairID)
	if err != nil {
		logger.Warn().Err(err).Str("Fallback", FallbackPrice.String()).Msg("price fetch failed, using fallback price")
		return Stale(FallbackPrice, err.Error())
	}
	logger.Info().Str("PriceUSD", price.String()).Msg("price fetched")
	return Fresh(price)
}

// FetchPriceValue is FetchPrice reduced to a number, 1.0 on any failure.
func (c *Client) FetchPriceValue(ctx context.Context, tokenAddress, pairID string) float64 {
	return c.FetchPrice(ctx, tokenAddress, pairID).Float()
}

func (c *Client) fetch(ctx context.Context, pairID string) (decimal.Decimal, error) {
	if pairID == "" {
		return decimal.Zero, fmt.Errorf("empty pair id")
	}
	endpoint := fmt.Sprintf("%s/latest/dex/pairs/%s/%s", c.baseURL, url.PathEscape(c.chain), url.PathEscape(pairID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer closer.DrainAndCloseWithLogOnError(ctx, "price response", res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decimal.Zero, fmt.Errorf("unexpected status %d from price source", res.StatusCode)
	}

	var body pairResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, maxBodySize)).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decoding price response: %w", err)
	}
	if body.Pair == nil || body.Pair.PriceUSD == "" {
		return decimal.Zero, fmt.Errorf("price response has no pair.priceUsd")
	}
	price, err := decimal.NewFromString(body.Pair.PriceUSD)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing priceUsd %q: %w", body.Pair.PriceUSD, err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative priceUsd %q", body.Pair.PriceUSD)
	}
	return price, nil
}
