package eventhandler

import (
	"context"
	"time"

	sync "github.com/bacalhau-project/golang-mutex-tracer"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/backit-onchain/oracle/pkg/system"
)

// NoopContextProvider is a context provider that does not generate a new context, and
// simply returns the ctx passed in.
type NoopContextProvider struct{}

func NewNoopContextProvider() *NoopContextProvider {
	return &NoopContextProvider{}
}

func (t *NoopContextProvider) GetContext(ctx context.Context, _ string) context.Context {
	return ctx
}

// TracerContextProvider is a context provider that starts a span per processed deploy.
// It also implements DeployEventHandler to end that span once the chain has handled the event,
// so it should be added as the last handler.
type TracerContextProvider struct {
	listenerID     string
	deployContexts map[string]context.Context
	contextMutex   sync.RWMutex
}

func NewTracerContextProvider(listenerID string) *TracerContextProvider {
	tracer := &TracerContextProvider{
		listenerID:     listenerID,
		deployContexts: make(map[string]context.Context),
	}

	tracer.contextMutex.EnableTracerWithOpts(sync.Opts{
		Threshold: 10 * time.Millisecond,
		Id:        "TracerContextProvider.contextMutex",
	})
	return tracer
}

func (t *TracerContextProvider) GetContext(ctx context.Context, deployHash string) context.Context {
	t.contextMutex.Lock()
	defer t.contextMutex.Unlock()

	deployCtx, _ := system.Span(ctx, "pkg/eventhandler/DeployEventHandler.HandleDeployEvent",
		oteltrace.WithSpanKind(oteltrace.SpanKindConsumer),
		oteltrace.WithAttributes(
			attribute.String("ListenerID", t.listenerID),
			attribute.String(system.TracerAttributeNameDeployHash, deployHash),
		),
	)

	// keep the latest context to clean it up during shutdown if necessary
	t.deployContexts[deployHash] = deployCtx
	return deployCtx
}

// HandleDeployEvent ends the span started for the deploy.
func (t *TracerContextProvider) HandleDeployEvent(ctx context.Context, event DeployEvent) error {
	oteltrace.SpanFromContext(ctx).End()
	t.contextMutex.Lock()
	defer t.contextMutex.Unlock()
	delete(t.deployContexts, event.DeployHash.String())
	return nil
}

// Pending returns how many deploy spans are still open.
func (t *TracerContextProvider) Pending() int {
	t.contextMutex.RLock()
	defer t.contextMutex.RUnlock()
	return len(t.deployContexts)
}

func (t *TracerContextProvider) Shutdown() error {
	t.contextMutex.Lock()
	defer t.contextMutex.Unlock()

	for _, ctx := range t.deployContexts {
		oteltrace.SpanFromContext(ctx).End()
	}

	t.deployContexts = make(map[string]context.Context)
	return nil
}

var _ DeployEventHandler = (*TracerContextProvider)(nil)
var _ ContextProvider = (*TracerContextProvider)(nil)
