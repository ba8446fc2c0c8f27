package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/cenkalti/backoff/v4"
	"github.com/make-software/casper-go-sdk/sse"
	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/backit-onchain/oracle/pkg/eventhandler"
	"github.com/backit-onchain/oracle/pkg/logger"
)

const (
	DefaultMinBackoff   = time.Second
	DefaultMaxBackoff   = time.Minute
	DefaultMaxEventSize = 4 * datasize.MB

	// blockedStreamLimit is how long the stream may stay full before the connection is dropped.
	blockedStreamLimit = 30 * time.Second
	eventBuffer        = 64
)

var errStreamClosed = errors.New("event stream closed by the node")

type ListenerParams struct {
	// EventsURL is the node's main event stream, e.g. http://localhost:18101/events/main.
	EventsURL    string
	MaxEventSize datasize.ByteSize
	MinBackoff   time.Duration
	MaxBackoff   time.Duration
	// Watched are the contracts whose transforms are surfaced to the handler.
	Watched []key.Hash
	Decoder EventDecoder
	Handler eventhandler.DeployEventHandler
	// HTTPClient defaults to a client without timeout, as the stream is long lived.
	HTTPClient *http.Client
}

// Listener follows the node event stream and hands every processed deploy to its handler.
type Listener struct {
	params ListenerParams
	lastID uint64
	hasID  bool
}

func NewListener(params ListenerParams) (*Listener, error) {
	if params.EventsURL == "" {
		return nil, fmt.Errorf("events URL is required")
	}
	if _, err := url.Parse(params.EventsURL); err != nil {
		return nil, fmt.Errorf("invalid events URL %q: %w", params.EventsURL, err)
	}
	if params.Handler == nil {
		return nil, fmt.Errorf("deploy event handler is required")
	}
	if params.Decoder == nil {
		params.Decoder = NoopDecoder{}
	}
	if params.MinBackoff <= 0 {
		params.MinBackoff = DefaultMinBackoff
	}
	if params.MaxBackoff < params.MinBackoff {
		params.MaxBackoff = DefaultMaxBackoff
	}
	if params.MaxEventSize == 0 {
		params.MaxEventSize = DefaultMaxEventSize
	}
	if params.HTTPClient == nil {
		params.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Listener{params: params}, nil
}

// Run consumes the stream until ctx is cancelled, reconnecting with exponential backoff whenever
// the connection fails or is closed. It returns nil once ctx is done.
func (l *Listener) Run(ctx context.Context) error {
	ctx = logger.ContextWithComponentLogger(ctx, "indexer")

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.params.MinBackoff
	b.MaxInterval = l.params.MaxBackoff
	b.MaxElapsedTime = 0

	operation := func() error {
		err := l.stream(ctx, b)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		log.Ctx(ctx).Warn().Err(err).Dur("Retry", next).Msg("event stream disconnected, reconnecting")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Ctx(ctx).Info().Msg("event listener stopped")
		return nil
	}
	return err
}

// startFrom is the event id to resume from, or -1 to start at the head of the stream.
func (l *Listener) startFrom() int {
	if !l.hasID {
		return -1
	}
	return int(l.lastID + 1)
}

func (l *Listener) newStreamer() *sse.Streamer {
	streamer := sse.NewStreamer(
		sse.NewHttpConnection(l.params.HTTPClient, l.params.EventsURL),
		&sse.EventStreamReader{MaxBufferSize: int(l.params.MaxEventSize.Bytes())},
		blockedStreamLimit,
	)
	streamer.RegisterEvent(sse.APIVersionEventType)
	streamer.RegisterEvent(sse.DeployProcessedEventType)
	return streamer
}

// stream reads one connection to completion. It always returns an error, as the stream is not
// expected to end.
func (l *Listener) stream(ctx context.Context, b backoff.BackOff) error {
	startFrom := l.startFrom()
	events := make(chan sse.RawEvent, eventBuffer)
	unparsed := make(chan error, eventBuffer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		return l.newStreamer().FillStream(gctx, startFrom, events, unparsed)
	})

	connected := false
	for {
		select {
		case err := <-unparsed:
			// events the streamer was not asked to parse, such as BlockAdded
			log.Ctx(ctx).Trace().Err(err).Msg("skipping event")
		case raw, ok := <-events:
			if !ok {
				return l.closed(ctx, g.Wait())
			}
			if !connected {
				connected = true
				log.Ctx(ctx).Info().Str("URL", l.params.EventsURL).Int("StartFrom", startFrom).Msg("connected to event stream")
				b.Reset()
			}
			if raw.EventType != sse.APIVersionEventType {
				l.lastID, l.hasID = raw.EventID, true
			}
			l.dispatch(ctx, Decode(raw))
		}
	}
}

func (l *Listener) closed(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err == nil, errors.Is(err, io.EOF):
		return errStreamClosed
	default:
		return fmt.Errorf("reading event stream %s: %w", l.params.EventsURL, err)
	}
}

func (l *Listener) dispatch(ctx context.Context, envelope Envelope) {
	switch e := envelope.(type) {
	case APIVersion:
		log.Ctx(ctx).Info().Str("APIVersion", e.Version).Msg("event stream api version")
	case DeployProcessedSuccess:
		l.handle(ctx, e.DeployProcessedPayload)
	case DeployProcessedFailure:
		l.handle(ctx, e.DeployProcessedPayload)
	case Heartbeat:
		log.Ctx(ctx).Trace().Msg("event stream heartbeat")
	case Unrecognized:
		log.Ctx(ctx).Debug().Strs("Kinds", e.Kinds).Str("Reason", e.Reason).Msg("ignoring unrecognized event")
	}
}

func (l *Listener) handle(ctx context.Context, processed sse.DeployProcessedPayload) {
	event := eventhandler.DeployEvent{DeployProcessedPayload: processed}

	var all []types.TransformKey
	if data := eventhandler.ResultData(processed.ExecutionResult); data != nil {
		all = data.Effect.Transforms
	}
	byContract := ContractTransforms(all, l.params.Watched)
	contracts := make([]key.Hash, 0, len(byContract))
	for h := range byContract {
		contracts = append(contracts, h)
	}
	sort.Slice(contracts, func(i, j int) bool { return contracts[i].String() < contracts[j].String() })

	for _, contract := range contracts {
		transforms := byContract[contract]
		event.ContractTransforms = append(event.ContractTransforms, transforms...)
		decoded, err := l.params.Decoder.DecodeEvents(ctx, contract, transforms)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).
				Str("DeployHash", processed.DeployHash.String()).
				Str("Contract", contract.String()).
				Msg("failed to decode contract events")
			continue
		}
		event.ContractEvents = append(event.ContractEvents, decoded...)
	}

	if err := l.params.Handler.HandleDeployEvent(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("DeployHash", processed.DeployHash.String()).Msg("failed to handle deploy event")
	}
}
