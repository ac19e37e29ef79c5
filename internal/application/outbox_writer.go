package application

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rodolfodevapp/eventshop-messaging-go/core/primitives"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

// OutboxWriter persists integration events for the outbox dispatcher.
type OutboxWriter interface {
	Enqueue(ctx context.Context, ev primitives.Event) error
}

type outboxWriter struct {
	repo domain.OutboxRepository
}

func NewOutboxWriter(repo domain.OutboxRepository) OutboxWriter {
	return &outboxWriter{repo: repo}
}

// Enqueue stores ev as a pending message.
func (w *outboxWriter) Enqueue(ctx context.Context, ev primitives.Event) error {
	msg, err := NewOutboxMessage(ev)
	if err != nil {
		return err
	}
	return w.repo.Insert(ctx, msg)
}

// NewOutboxMessage builds the pending message for ev. The routing key becomes
// the message type; events without one fall back to their Go type name.
func NewOutboxMessage(ev primitives.Event) (domain.OutboxMessage, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal %s: %w", typeNameOf(ev), err)
	}

	eventType := ev.GetRoutingKey()
	if eventType == "" {
		eventType = typeNameOf(ev)
	}

	return domain.OutboxMessage{
		ID:            uuid.New(),
		Type:          eventType,
		PayloadJSON:   string(payload),
		OccurredAtUtc: time.Now().UTC().Unix(),
	}, nil
}

func typeNameOf(ev primitives.Event) string {
	if ev == nil {
		return ""
	}
	t := reflect.TypeOf(ev)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
