package application

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rodolfodevapp/eventshop-messaging-go/core/primitives"
	"github.com/rs/zerolog/log"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

const SkuImportRequestedType = "SkuImportRequested"

type EventHandler interface {
	Handle(ctx context.Context, ev primitives.Event) error
}

// SkuImportRequestedHandler applies batches published on sku.commands through
// the same facade as the HTTP import.
type SkuImportRequestedHandler struct {
	service *SkuService
}

func NewSkuImportRequestedHandler(s *SkuService) *SkuImportRequestedHandler {
	return &SkuImportRequestedHandler{service: s}
}

// Handle drops messages that can never succeed (wrong type, bad payload,
// invalid records) and returns storage failures so the bus retries them.
func (h *SkuImportRequestedHandler) Handle(ctx context.Context, ev primitives.Event) error {
	env, ok := ev.(*primitives.IntegrationEventEnvelope)
	if !ok {
		log.Warn().Str("event_type", typeNameOf(ev)).Msg("SkuImportRequestedHandler: invalid event type")
		return nil
	}
	if env.Type != SkuImportRequestedType {
		return nil
	}

	var payload domain.SkuImportRequestedPayload
	if err := json.Unmarshal([]byte(env.PayloadJSON), &payload); err != nil {
		log.Warn().Err(err).Msg("SkuImportRequestedHandler: failed to unmarshal payload")
		return nil
	}

	log.Info().Int("count", len(payload.Skus)).Msg("SkuImportRequestedHandler: received import request")

	res, err := h.service.ImportSkus(ctx, payload.Skus)
	if errors.Is(err, domain.ErrInvalidInput) {
		log.Warn().Err(err).Msg("SkuImportRequestedHandler: rejected batch")
		return nil
	}
	if err != nil {
		return err
	}

	log.Debug().Str("message", res.Message).Msg("SkuImportRequestedHandler: batch applied")
	return nil
}
