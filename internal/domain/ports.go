package domain

import (
	"context"

	"github.com/google/uuid"
)

// SkuStore is implemented by every storage backend. GetByID returns ErrNotFound
// when no record has the id; list lookups return an empty slice instead.
type SkuStore interface {
	Import(ctx context.Context, skus []Sku) error
	GetByID(ctx context.Context, skuID uint64) (*Sku, error)
	GetByWarehouse(ctx context.Context, warehouseID uint64) ([]Sku, error)
	GetByItem(ctx context.Context, itemID uint64) ([]Sku, error)
}

// EventSkuStore can write an outbox message in the same transaction as an
// import batch.
type EventSkuStore interface {
	SkuStore
	ImportWithEvent(ctx context.Context, skus []Sku, msg OutboxMessage) error
}

// SkuCache holds single records keyed by sku_id, each with a generation that
// Invalidate advances. Get returns a nil record on a miss together with the
// current generation; Fill only stores a record while that generation holds,
// so a read that raced an import is never cached.
type SkuCache interface {
	Get(ctx context.Context, skuID uint64) (*Sku, uint64, error)
	Fill(ctx context.Context, sku Sku, gen uint64) error
	Invalidate(ctx context.Context, skuIDs ...uint64) error
}

type OutboxRepository interface {
	Insert(ctx context.Context, msg OutboxMessage) error
	GetPendingBatch(ctx context.Context, maxRetry, batchSize int) ([]OutboxMessage, error)
	Save(ctx context.Context, msg OutboxMessage) error
}

type OutboxMessage struct {
	ID             uuid.UUID
	Type           string
	PayloadJSON    string
	OccurredAtUtc  int64 // unix seconds
	RetryCount     int
	ProcessedAtUtc *int64
}
