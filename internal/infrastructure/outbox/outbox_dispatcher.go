package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rodolfodevapp/eventshop-messaging-go/core/abstractions"
	"github.com/rodolfodevapp/eventshop-messaging-go/core/primitives"
	"github.com/rs/zerolog/log"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

// Dispatcher moves pending outbox messages to the event bus.
type Dispatcher struct {
	repo      domain.OutboxRepository
	eventBus  abstractions.EventBus
	maxRetry  int
	batchSize int
	now       func() time.Time
}

func NewDispatcher(
	repo domain.OutboxRepository,
	eventBus abstractions.EventBus,
	maxRetry, batchSize int,
) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		eventBus:  eventBus,
		maxRetry:  maxRetry,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// DispatchOnce publishes one batch and returns how many messages were
// published. A failed publish bumps the retry count; messages reaching
// maxRetry are no longer picked up. A payload that is not JSON can never be
// published and is parked at maxRetry straight away.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	msgs, err := d.repo.GetPendingBatch(ctx, d.maxRetry, d.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for i := range msgs {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		msg := &msgs[i]

		if !json.Valid([]byte(msg.PayloadJSON)) {
			log.Error().Str("outbox_id", msg.ID.String()).Str("type", msg.Type).Msg("outbox: payload is not valid json, parking message")
			msg.RetryCount = d.maxRetry
			d.save(ctx, msg)
			continue
		}

		if err := d.eventBus.Publish(ctx, d.envelope(msg)); err != nil {
			msg.RetryCount++
			log.Error().Err(err).
				Str("outbox_id", msg.ID.String()).
				Str("type", msg.Type).
				Int("retry", msg.RetryCount).
				Msg("outbox: publish failed")
		} else {
			processed := d.now().UTC().Unix()
			msg.ProcessedAtUtc = &processed
			published++
		}

		d.save(ctx, msg)
	}

	return published, nil
}

// envelope keeps the time the import committed, not the time of dispatch.
func (d *Dispatcher) envelope(msg *domain.OutboxMessage) *primitives.IntegrationEventEnvelope {
	env := primitives.NewIntegrationEventEnvelopeWith(
		primitives.NewBaseEvent(),
		msg.Type,
		msg.PayloadJSON,
		time.Unix(msg.OccurredAtUtc, 0).UTC(),
	)
	return &env
}

func (d *Dispatcher) save(ctx context.Context, msg *domain.OutboxMessage) {
	if err := d.repo.Save(ctx, *msg); err != nil {
		log.Error().Err(err).Str("outbox_id", msg.ID.String()).Msg("outbox: failed to save message")
	}
}
