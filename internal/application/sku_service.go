package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

// DefaultStoreTimeout bounds storage calls when no positive timeout is configured.
const DefaultStoreTimeout = 10 * time.Second

// post-commit invalidation attempts, backing off invalidateBackoff per attempt
const invalidateAttempts = 3

var invalidateBackoff = 50 * time.Millisecond

type ImportResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SkuService is the query facade over a SkuStore. Every error it returns wraps
// exactly one of domain.ErrNotFound, domain.ErrInvalidInput or
// domain.ErrInternal; driver errors are logged here and never returned.
type SkuService struct {
	store        domain.SkuStore
	backend      string
	cache        domain.SkuCache
	outbox       OutboxWriter
	storeTimeout time.Duration
}

type SkuServiceOption func(*SkuService)

// WithCache enables read-through caching of GetByID.
func WithCache(c domain.SkuCache) SkuServiceOption {
	return func(s *SkuService) { s.cache = c }
}

// WithOutbox records a SkusImported event for every committed import. Stores
// implementing domain.EventSkuStore write it in the import transaction; for
// any other store it is enqueued through w after the commit.
func WithOutbox(w OutboxWriter) SkuServiceOption {
	return func(s *SkuService) { s.outbox = w }
}

// WithStoreTimeout bounds every storage call. Non-positive values keep
// DefaultStoreTimeout; storage calls are never unbounded.
func WithStoreTimeout(d time.Duration) SkuServiceOption {
	return func(s *SkuService) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

func NewSkuService(store domain.SkuStore, backend string, opts ...SkuServiceOption) *SkuService {
	s := &SkuService{store: store, backend: backend, storeTimeout: DefaultStoreTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportSkus validates the whole batch before touching storage, then applies
// it through the store. An empty batch succeeds without storage access.
//
// With a cache, the batch's ids are invalidated before the write and again
// after the commit. The first invalidation must succeed or the import is
// refused; the second is retried and then logged.
func (s *SkuService) ImportSkus(ctx context.Context, skus []domain.Sku) (ImportResult, error) {
	if len(skus) == 0 {
		return ImportResult{Success: true, Message: "no skus to import"}, nil
	}

	for i := range skus {
		if err := skus[i].Validate(); err != nil {
			return ImportResult{}, fmt.Errorf("record %d: %w", i, err)
		}
	}

	ids := skuIDs(skus)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, ids...); err != nil {
			log.Error().Err(err).Int("count", len(ids)).Msg("cache invalidation failed, import refused")
			return ImportResult{}, fmt.Errorf("%w: cache invalidation failed", domain.ErrInternal)
		}
	}

	storeCtx, cancel := s.storeContext(ctx)
	eventWritten, err := s.write(storeCtx, skus)
	cancel()
	if err != nil {
		return ImportResult{}, s.classify("import", err)
	}

	log.Info().Int("count", len(skus)).Str("backend", s.backend).Msg("skus imported")

	// committed: the caller going away must not skip the follow-up work
	after := context.WithoutCancel(ctx)
	if s.cache != nil {
		if err := s.invalidateCommitted(after, ids); err != nil {
			log.Error().Err(err).Int("count", len(ids)).Msg("cache invalidation after commit failed")
		}
	}
	if s.outbox != nil && !eventWritten {
		// a lost event is logged, not reported
		if err := s.outbox.Enqueue(after, domain.NewSkusImportedEvent(s.backend, skus)); err != nil {
			log.Error().Err(err).Msg("failed to enqueue SkusImported")
		}
	}

	return ImportResult{
		Success: true,
		Message: fmt.Sprintf("%d skus imported successfully", len(skus)),
	}, nil
}

func (s *SkuService) GetByID(ctx context.Context, skuID uint64) (*domain.Sku, error) {
	if err := checkID("skuId", skuID); err != nil {
		return nil, err
	}

	// the generation is read before the store so a concurrent import
	// invalidates the fill below
	var (
		gen  uint64
		fill bool
	)
	if s.cache != nil {
		cached, g, err := s.cache.Get(ctx, skuID)
		switch {
		case err != nil:
			log.Warn().Err(err).Uint64("sku_id", skuID).Msg("cache read failed")
		case cached != nil:
			return cached, nil
		default:
			gen, fill = g, true
		}
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	sku, err := s.store.GetByID(storeCtx, skuID)
	if err != nil {
		return nil, s.classify("get by id", err)
	}

	if fill {
		if err := s.cache.Fill(ctx, *sku, gen); err != nil {
			log.Warn().Err(err).Uint64("sku_id", skuID).Msg("cache write failed")
		}
	}
	return sku, nil
}

func (s *SkuService) GetByWarehouse(ctx context.Context, warehouseID uint64) ([]domain.Sku, error) {
	if err := checkID("warehouseId", warehouseID); err != nil {
		return nil, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	skus, err := s.store.GetByWarehouse(storeCtx, warehouseID)
	if err != nil {
		return nil, s.classify("get by warehouse", err)
	}
	return skus, nil
}

func (s *SkuService) GetByItem(ctx context.Context, itemID uint64) ([]domain.Sku, error) {
	if err := checkID("itemId", itemID); err != nil {
		return nil, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	skus, err := s.store.GetByItem(storeCtx, itemID)
	if err != nil {
		return nil, s.classify("get by item", err)
	}
	return skus, nil
}

// write applies the batch and reports whether the SkusImported message was
// committed with it.
func (s *SkuService) write(ctx context.Context, skus []domain.Sku) (bool, error) {
	es, ok := s.store.(domain.EventSkuStore)
	if s.outbox == nil || !ok {
		return false, s.store.Import(ctx, skus)
	}
	msg, err := NewOutboxMessage(domain.NewSkusImportedEvent(s.backend, skus))
	if err != nil {
		return false, err
	}
	return true, es.ImportWithEvent(ctx, skus, msg)
}

func (s *SkuService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

func (s *SkuService) invalidateCommitted(ctx context.Context, ids []uint64) error {
	var err error
	for attempt := 1; attempt <= invalidateAttempts; attempt++ {
		if err = s.cache.Invalidate(ctx, ids...); err == nil {
			return nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("cache invalidation retry")
		if attempt < invalidateAttempts {
			time.Sleep(time.Duration(attempt) * invalidateBackoff)
		}
	}
	return err
}

// classify maps a store error onto the outward error kinds.
func (s *SkuService) classify(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return err
	}

	log.Error().Err(err).Str("op", op).Str("backend", s.backend).Msg("storage failure")
	return fmt.Errorf("%w: %s failed", domain.ErrInternal, op)
}

// stored ids are signed 64-bit
func checkID(name string, id uint64) error {
	if id > math.MaxInt64 {
		return fmt.Errorf("%w: %s %d out of range", domain.ErrInvalidInput, name, id)
	}
	return nil
}

func skuIDs(skus []domain.Sku) []uint64 {
	ids := make([]uint64, 0, len(skus))
	for _, s := range skus {
		if s.SkuID != nil {
			ids = append(ids, *s.SkuID)
		}
	}
	return ids
}
