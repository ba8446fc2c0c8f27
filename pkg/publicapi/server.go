package publicapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/backit-onchain/oracle/pkg/casper/rpc"
	"github.com/backit-onchain/oracle/pkg/deploys"
	"github.com/backit-onchain/oracle/pkg/oracle"
	"github.com/backit-onchain/oracle/pkg/publicapi/handlerwrapper"
	"github.com/backit-onchain/oracle/pkg/system"
)

const APIPrefix = "/api/v1"

type APIServerConfig struct {
	// ReadHeaderTimeout is the amount of time allowed to read request headers
	ReadHeaderTimeout time.Duration
	// ReadTimeout is the maximum duration for reading the entire request, including the body
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// RequestHandlerTimeout is the maximum duration a handler may take before a 503 is returned
	RequestHandlerTimeout time.Duration
	// ThrottleLimit is the number of requests per second allowed per client
	ThrottleLimit float64
	// JWTSecret verifies bearer tokens on the mutating endpoints. Empty disables them.
	JWTSecret string
}

func DefaultAPIServerConfig() APIServerConfig {
	return APIServerConfig{
		ReadHeaderTimeout:     10 * time.Second,
		ReadTimeout:           20 * time.Second,
		WriteTimeout:          45 * time.Second,
		RequestHandlerTimeout: 30 * time.Second,
		ThrottleLimit:         1000,
	}
}

type ServerParams struct {
	Address string
	Config  APIServerConfig
	Oracle  *oracle.Service
	Builder *deploys.Builder
	Node    rpc.NodeClient
}

// APIServer serves the oracle's public REST API.
type APIServer struct {
	Address string
	Router  *mux.Router
	config  APIServerConfig
	oracle  *oracle.Service
	builder *deploys.Builder
	node    rpc.NodeClient
	logger  handlerwrapper.RequestInfoHandler
}

func NewAPIServer(params ServerParams) (*APIServer, error) {
	if params.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if params.Oracle == nil {
		return nil, fmt.Errorf("oracle service is required")
	}
	if params.Builder == nil {
		return nil, fmt.Errorf("deploy builder is required")
	}
	if params.Node == nil {
		return nil, fmt.Errorf("node client is required")
	}
	if _, _, err := net.SplitHostPort(params.Address); err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", params.Address, err)
	}

	apiServer := &APIServer{
		Address: params.Address,
		Router:  mux.NewRouter(),
		config:  params.Config,
		oracle:  params.Oracle,
		builder: params.Builder,
		node:    params.Node,
		logger:  handlerwrapper.NewJSONLogHandler(),
	}
	apiServer.registerHandlers()
	return apiServer, nil
}

// GetURI returns the base URI of the server, e.g. http://127.0.0.1:8080
func (apiServer *APIServer) GetURI() string {
	return "http://" + apiServer.Address
}

func (apiServer *APIServer) registerHandlers() {
	authn := func(fn httpErrorFunc) httpErrorFunc {
		return requiresLogin(apiServer.config.JWTSecret, fn)
	}
	subrouter := apiServer.Router.PathPrefix(APIPrefix).Subrouter()

	handle := func(method, route string, fn http.HandlerFunc) {
		subrouter.Handle(route, apiServer.instrument(route, fn)).Methods(method)
	}

	handle(http.MethodGet, "/livez", handleError(returnsJSON(expectsNothing(apiServer.livez))))
	handle(http.MethodGet, "/readyz", handleError(returnsJSON(expectsNothing(apiServer.readyz))))
	handle(http.MethodGet, "/version", handleError(returnsJSON(expectsNothing(apiServer.version))))
	handle(http.MethodGet, "/oracle/public-key", handleError(returnsJSON(expectsNothing(apiServer.publicKey))))
	handle(http.MethodGet, "/prices/{pairID}", handleError(returnsJSON(apiServer.price)))

	handle(http.MethodPost, "/outcomes/sign", handleError(authn(returnsJSON(expectsJSON(apiServer.signOutcome)))))
	handle(http.MethodPost, "/outcomes/verify", handleError(returnsJSON(expectsJSON(apiServer.verifyOutcome))))
	handle(http.MethodPost, "/outcomes", handleError(authn(returnsJSON(expectsJSON(apiServer.settle)))))

	handle(http.MethodGet, "/deploys/{hash}/status", handleError(returnsJSON(apiServer.deployStatus)))
	handle(http.MethodPost, "/deploys/create-call", handleError(returnsJSON(expectsJSON(apiServer.createCall))))
	handle(http.MethodPost, "/deploys/stake", handleError(returnsJSON(expectsJSON(apiServer.stake))))
	handle(http.MethodPost, "/deploys/withdraw", handleError(returnsJSON(expectsJSON(apiServer.withdraw))))
	handle(http.MethodPost, "/deploys", handleError(returnsJSON(expectsJSON(apiServer.putDeploy))))

	handle(http.MethodGet, "/settlements", handleError(returnsJSON(apiServer.settlements)))
	handle(http.MethodGet, "/settlements/{callID}", handleError(returnsJSON(apiServer.settlement)))
}

// instrument wraps a handler with tracing, rate limiting, a handler timeout and request logging.
func (apiServer *APIServer) instrument(name string, fn http.Handler) http.Handler {
	var handler = fn

	handler = handlerwrapper.NewHTTPHandlerWrapper(APIPrefix+name, handler, apiServer.logger)

	if apiServer.config.RequestHandlerTimeout > 0 {
		handler = http.TimeoutHandler(handler, apiServer.config.RequestHandlerTimeout, "Server Timeout!")
	}

	if apiServer.config.ThrottleLimit > 0 {
		lmt := tollbooth.NewLimiter(apiServer.config.ThrottleLimit, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
		lmt.SetMessageContentType("application/json; charset=utf-8")
		lmt.SetMessage(`{"Message":"rate limit exceeded"}`)
		handler = tollbooth.LimitHandler(lmt, handler)
	}

	return otelhttp.NewHandler(handler, "pkg/publicapi"+name)
}

// ListenAndServe serves until the context is cancelled or the cleanup manager shuts the server down.
func (apiServer *APIServer) ListenAndServe(ctx context.Context, cm *system.CleanupManager) error {
	srv := &http.Server{
		Addr:              apiServer.Address,
		Handler:           apiServer.Router,
		ReadHeaderTimeout: apiServer.config.ReadHeaderTimeout,
		ReadTimeout:       apiServer.config.ReadTimeout,
		WriteTimeout:      apiServer.config.WriteTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	cm.RegisterCallbackWithContext(srv.Shutdown)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Ctx(ctx).Info().Str("Address", apiServer.Address).Msg("API server listening")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
