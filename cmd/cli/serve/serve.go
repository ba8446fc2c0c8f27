package serve

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/backit-onchain/oracle/cmd/util"
	"github.com/backit-onchain/oracle/pkg/casper"
	"github.com/backit-onchain/oracle/pkg/config/types"
	"github.com/backit-onchain/oracle/pkg/eventhandler"
	"github.com/backit-onchain/oracle/pkg/indexer"
	"github.com/backit-onchain/oracle/pkg/intake"
	"github.com/backit-onchain/oracle/pkg/logger"
	"github.com/backit-onchain/oracle/pkg/oracle"
	"github.com/backit-onchain/oracle/pkg/publicapi"
	"github.com/backit-onchain/oracle/pkg/store"
	"github.com/backit-onchain/oracle/pkg/system"
)

const listenerID = "backit-oracle"

func NewCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the oracle: public API, event listener and settlement intake",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	fs := serveCmd.Flags()
	util.AddNodeFlags(fs)
	util.AddContractFlags(fs)
	fs.String(util.FlagKey, "", "Path to the oracle secret key PEM file.")
	fs.String("api-address", "", "host:port the API listens on.")
	fs.String("events-url", "", "Casper node SSE event stream URL.")
	fs.String("store-type", "", "Settlement store: inmemory, sqlite or postgres.")
	fs.String("store-dsn", "", "Settlement store file name or connection string.")
	return serveCmd
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cm := util.GetCleanupManager(ctx)

	cfg, err := util.LoadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	components, err := util.NewComponents(ctx, cfg)
	if err != nil {
		return err
	}

	settlements, err := util.NewSettlementStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening settlement store: %w", err)
	}
	cm.RegisterCallbackWithContext(settlements.Close)

	service := oracle.NewService(oracle.Params{
		Prices:    components.Prices,
		Signer:    components.Signer,
		Submitter: components.Submitter,
		Store:     settlements,
	})

	apiConfig := publicapi.DefaultAPIServerConfig()
	apiConfig.JWTSecret = cfg.API.JWTSecret
	apiConfig.ThrottleLimit = cfg.API.RateLimit
	if timeout := cfg.API.RequestTimeout.AsTimeDuration(); timeout > 0 {
		apiConfig.RequestHandlerTimeout = timeout
	}
	apiServer, err := publicapi.NewAPIServer(publicapi.ServerParams{
		Address: cfg.API.Address,
		Config:  apiConfig,
		Oracle:  service,
		Builder: components.Builder,
		Node:    components.Node,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apiServer.ListenAndServe(logger.ContextWithComponentLogger(ctx, "api"), cm)
	})

	if cfg.Indexer.Enabled {
		listener, err := newListener(cfg, settlements, cm)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return listener.Run(logger.ContextWithComponentLogger(ctx, "indexer"))
		})
	}

	if cfg.Intake.Enabled {
		consumer, err := intake.NewConsumer(intake.ConsumerParams{
			URI:        cfg.Intake.AMQPURI,
			Queue:      cfg.Intake.Queue,
			Prefetch:   cfg.Intake.Prefetch,
			MinBackoff: cfg.Intake.MinBackoff.AsTimeDuration(),
			MaxBackoff: cfg.Intake.MaxBackoff.AsTimeDuration(),
			Settler:    service,
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			return consumer.Run(logger.ContextWithComponentLogger(ctx, "intake"))
		})
	}

	if info, err := service.PublicKey(); err == nil {
		log.Ctx(ctx).Info().
			Str("PublicKey", info.PublicKey).
			Str("Account", info.Account).
			Bool("Ephemeral", info.Ephemeral).
			Msg("oracle started")
	}
	return g.Wait()
}

// newListener chains the handlers every processed deploy goes through: settlement bookkeeping,
// the optional trace file, then the span cleanup.
func newListener(cfg types.Oracle, settlements store.SettlementStore, cm *system.CleanupManager) (*indexer.Listener, error) {
	contextProvider := eventhandler.NewTracerContextProvider(listenerID)
	cm.RegisterCallback(contextProvider.Shutdown)

	chain := eventhandler.NewChainedDeployEventHandler(contextProvider)
	chain.AddHandlers(store.NewSettlementEventHandler(settlements))
	if cfg.Indexer.TraceFile != "" {
		tracer, err := eventhandler.NewTracerToFile(cfg.Indexer.TraceFile)
		if err != nil {
			return nil, fmt.Errorf("opening trace file: %w", err)
		}
		cm.RegisterCallback(tracer.Shutdown)
		chain.AddHandlers(tracer)
	}
	chain.AddHandlers(contextProvider)

	maxEventSize, err := parseMaxEventSize(cfg.Indexer.MaxEventSize)
	if err != nil {
		return nil, err
	}

	return indexer.NewListener(indexer.ListenerParams{
		EventsURL:    cfg.Node.EventsURL,
		MaxEventSize: maxEventSize,
		MinBackoff:   cfg.Indexer.MinBackoff.AsTimeDuration(),
		MaxBackoff:   cfg.Indexer.MaxBackoff.AsTimeDuration(),
		Watched:      watchedContracts(cfg.Contracts),
		Decoder:      indexer.NoopDecoder{},
		Handler:      chain,
	})
}

func parseMaxEventSize(s string) (datasize.ByteSize, error) {
	if s == "" {
		return 0, nil
	}
	var size datasize.ByteSize
	if err := size.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid Indexer.MaxEventSize %q: %w", s, err)
	}
	return size, nil
}

// watchedContracts returns the configured contract hashes, skipping unset or invalid ones.
func watchedContracts(contracts types.Contracts) []key.Hash {
	var watched []key.Hash
	for _, address := range []string{contracts.CallRegistry, contracts.OutcomeManager} {
		if address == "" {
			continue
		}
		hash, err := casper.ParseContractHash(address)
		if err != nil {
			log.Warn().Err(err).Str("Contract", address).Msg("not watching invalid contract hash")
			continue
		}
		watched = append(watched, hash)
	}
	return watched
}
