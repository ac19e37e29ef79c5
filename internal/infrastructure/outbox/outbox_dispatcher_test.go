package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rodolfodevapp/eventshop-messaging-go/core/abstractions"
	"github.com/rodolfodevapp/eventshop-messaging-go/core/primitives"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

type fakeBus struct {
	published  []*primitives.IntegrationEventEnvelope
	publishErr error
}

func (b *fakeBus) Publish(_ context.Context, ev primitives.Event) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, ev.(*primitives.IntegrationEventEnvelope))
	return nil
}

func (b *fakeBus) Subscribe(string, abstractions.EventHandler) abstractions.EventBus { return b }

func (b *fakeBus) SendCommand(context.Context, primitives.Command) error { return nil }

type fakeRepo struct {
	pending []domain.OutboxMessage
	saved   []domain.OutboxMessage
	getErr  error
}

func (r *fakeRepo) Insert(context.Context, domain.OutboxMessage) error { return nil }

func (r *fakeRepo) GetPendingBatch(_ context.Context, _, _ int) ([]domain.OutboxMessage, error) {
	return r.pending, r.getErr
}

func (r *fakeRepo) Save(_ context.Context, msg domain.OutboxMessage) error {
	r.saved = append(r.saved, msg)
	return nil
}

func pendingMessage(payload string, retry int) domain.OutboxMessage {
	return domain.OutboxMessage{
		ID:            uuid.New(),
		Type:          "SkusImported",
		PayloadJSON:   payload,
		OccurredAtUtc: 1700000000,
		RetryCount:    retry,
	}
}

func newTestDispatcher(repo *fakeRepo, bus *fakeBus) *Dispatcher {
	d := NewDispatcher(repo, bus, 5, 100)
	d.now = func() time.Time { return time.Unix(1700000500, 0) }
	return d
}

func TestDispatchOnce_PublishesAndMarksProcessed(t *testing.T) {
	repo := &fakeRepo{pending: []domain.OutboxMessage{pendingMessage(`{"count":2}`, 0)}}
	bus := &fakeBus{}

	n, err := newTestDispatcher(repo, bus).DispatchOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || len(bus.published) != 1 {
		t.Fatalf("expected one publish, got n=%d published=%d", n, len(bus.published))
	}

	env := bus.published[0]
	if env.Type != "SkusImported" || env.GetRoutingKey() != "SkusImported" || env.PayloadJSON != `{"count":2}` {
		t.Errorf("unexpected envelope %+v", env)
	}
	if !env.OccurredAtUtc.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("expected the commit time on the envelope, got %v", env.OccurredAtUtc)
	}

	if len(repo.saved) != 1 || repo.saved[0].ProcessedAtUtc == nil || *repo.saved[0].ProcessedAtUtc != 1700000500 {
		t.Errorf("expected message marked processed, got %+v", repo.saved)
	}
}

func TestDispatchOnce_PublishFailureBumpsRetry(t *testing.T) {
	repo := &fakeRepo{pending: []domain.OutboxMessage{pendingMessage(`{}`, 2)}}
	bus := &fakeBus{publishErr: errors.New("channel closed")}

	n, err := newTestDispatcher(repo, bus).DispatchOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing published, got %d", n)
	}
	if len(repo.saved) != 1 || repo.saved[0].RetryCount != 3 || repo.saved[0].ProcessedAtUtc != nil {
		t.Errorf("expected retry 3 and not processed, got %+v", repo.saved)
	}
}

func TestDispatchOnce_InvalidPayloadIsParked(t *testing.T) {
	repo := &fakeRepo{pending: []domain.OutboxMessage{
		pendingMessage(`{not json`, 0),
		pendingMessage(`{"count":1}`, 0),
	}}
	bus := &fakeBus{}

	n, err := newTestDispatcher(repo, bus).DispatchOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || len(bus.published) != 1 {
		t.Fatalf("expected only the valid message published, got %d", n)
	}
	if repo.saved[0].RetryCount != 5 || repo.saved[0].ProcessedAtUtc != nil {
		t.Errorf("expected invalid message parked at max retry, got %+v", repo.saved[0])
	}
}

func TestDispatchOnce_RepositoryError(t *testing.T) {
	repo := &fakeRepo{getErr: errors.New("connection refused")}

	if _, err := newTestDispatcher(repo, &fakeBus{}).DispatchOnce(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestDispatchOnce_StopsWhenCancelled(t *testing.T) {
	repo := &fakeRepo{pending: []domain.OutboxMessage{pendingMessage(`{}`, 0)}}
	bus := &fakeBus{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := newTestDispatcher(repo, bus).DispatchOnce(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n != 0 || len(bus.published) != 0 || len(repo.saved) != 0 {
		t.Errorf("expected no work after cancel, got n=%d published=%d saved=%d", n, len(bus.published), len(repo.saved))
	}
}
