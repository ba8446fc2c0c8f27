package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/system"
)

type ConsumerParams struct {
	URI        string
	Queue      string
	Prefetch   int
	MinBackoff time.Duration
	MaxBackoff time.Duration
	Settler    Settler
}

// Consumer settles calls requested over an AMQP queue. A message is acked once its outcome was
// submitted, rejected when it can never succeed and requeued once on network failures.
type Consumer struct {
	uri        string
	queue      string
	prefetch   int
	minBackoff time.Duration
	maxBackoff time.Duration
	settler    Settler
}

func NewConsumer(params ConsumerParams) (*Consumer, error) {
	if params.URI == "" {
		return nil, fmt.Errorf("amqp uri is required")
	}
	if params.Queue == "" {
		return nil, fmt.Errorf("queue is required")
	}
	if params.Settler == nil {
		return nil, fmt.Errorf("settler is required")
	}
	if params.Prefetch <= 0 {
		params.Prefetch = DefaultPrefetch
	}
	if params.MinBackoff <= 0 {
		params.MinBackoff = DefaultMinBackoff
	}
	if params.MaxBackoff < params.MinBackoff {
		params.MaxBackoff = DefaultMaxBackoff
	}
	return &Consumer{
		uri:        params.URI,
		queue:      params.Queue,
		prefetch:   params.Prefetch,
		minBackoff: params.MinBackoff,
		maxBackoff: params.MaxBackoff,
		settler:    params.Settler,
	}, nil
}

// Run consumes until ctx is cancelled, redialling the broker with backoff whenever the
// connection drops.
func (c *Consumer) Run(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.minBackoff
	b.MaxInterval = c.maxBackoff
	b.MaxElapsedTime = 0

	operation := func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		err := c.session(ctx, b.Reset)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err == nil {
			err = errors.New("delivery channel closed")
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		log.Ctx(ctx).Warn().Err(err).Dur("Backoff", next).Msg("settlement intake disconnected, reconnecting")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// session holds one broker connection open and consumes until it closes.
func (c *Consumer) session(ctx context.Context, connected func()) error {
	conn, err := amqp.Dial(c.uri)
	if err != nil {
		return fmt.Errorf("dialing broker: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			log.Ctx(ctx).Debug().Err(err).Msg("failed to close broker connection")
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel: %w", err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring queue %s: %w", c.queue, err)
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("setting prefetch: %w", err)
	}

	consumerTag := "backit-oracle-" + uuid.New().String()
	deliveries, err := ch.Consume(c.queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consuming %s: %w", c.queue, err)
	}
	connected()
	log.Ctx(ctx).Info().Str("Queue", c.queue).Str("Consumer", consumerTag).Msg("settlement intake consuming")

	done := make(chan struct{})
	defer close(done)
	go cancelOnDone(ctx, done, func() {
		_ = ch.Cancel(consumerTag, false)
	})

	c.consume(ctx, deliveries)
	return nil
}

// cancelOnDone calls cancel if ctx ends before the session does, and returns when either happens.
func cancelOnDone(ctx context.Context, sessionDone <-chan struct{}, cancel func()) {
	select {
	case <-ctx.Done():
		cancel()
	case <-sessionDone:
	}
}

// consume handles deliveries one at a time until the channel closes.
func (c *Consumer) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		c.handleDelivery(ctx, d)
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var msg SettlementRequest
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("MessageID", d.MessageId).Msg("rejecting malformed settlement request")
		c.reject(ctx, d)
		return
	}

	ctx, span := system.Span(ctx, "pkg/intake.Consumer.handleDelivery",
		oteltrace.WithAttributes(attribute.Int64(system.TracerAttributeNameCallID, int64(msg.CallID))))
	defer span.End()

	err := c.settle(ctx, msg)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			log.Ctx(ctx).Warn().Err(ackErr).Msg("failed to ack settlement request")
		}
		return
	}

	if retryable(err) && !d.Redelivered {
		log.Ctx(ctx).Warn().Err(err).Uint64("CallID", msg.CallID).Msg("settlement failed, requeueing")
		if nackErr := d.Nack(false, true); nackErr != nil {
			log.Ctx(ctx).Warn().Err(nackErr).Msg("failed to nack settlement request")
		}
		return
	}
	log.Ctx(ctx).Error().Err(err).Uint64("CallID", msg.CallID).Msg("settlement failed, dropping request")
	c.reject(ctx, d)
}

func (c *Consumer) settle(ctx context.Context, msg SettlementRequest) error {
	req, err := msg.toOutcomeRequest()
	if err != nil {
		return err
	}
	record, err := c.settler.Settle(ctx, req)
	if err != nil {
		return err
	}
	log.Ctx(ctx).Info().Uint64("CallID", msg.CallID).Str("DeployHash", record.DeployHash).Msg("settled call from queue")
	return nil
}

func (c *Consumer) reject(ctx context.Context, d amqp.Delivery) {
	if err := d.Reject(false); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to reject settlement request")
	}
}

// retryable reports whether a settlement may succeed when tried again later.
func retryable(err error) bool {
	switch oracleerrors.CodeOf(err) {
	case oracleerrors.NetworkFailure, oracleerrors.StalePrice, oracleerrors.Unknown:
		return true
	default:
		return false
	}
}
