package application

import (
	"context"
	"sync"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

// memStore is an in-memory SkuStore with the same upsert semantics as the
// real backends.
type memStore struct {
	mu        sync.Mutex
	skus      map[uint64]domain.Sku
	order     []uint64
	importErr error
	getErr    error
	imports   int
	gets      int
	block     bool
}

func newMemStore() *memStore {
	return &memStore{skus: map[uint64]domain.Sku{}}
}

func (m *memStore) Import(ctx context.Context, skus []domain.Sku) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports++
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if m.importErr != nil {
		return m.importErr
	}
	for _, s := range skus {
		id := *s.SkuID
		if existing, ok := m.skus[id]; ok {
			s.ItemID = existing.ItemID
			s.CountryCode = existing.CountryCode
		} else {
			m.order = append(m.order, id)
		}
		m.skus[id] = s
	}
	return nil
}

func (m *memStore) GetByID(_ context.Context, skuID uint64) (*domain.Sku, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.skus[skuID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *memStore) GetByWarehouse(_ context.Context, warehouseID uint64) ([]domain.Sku, error) {
	return m.filter(func(s domain.Sku) bool {
		return s.WarehouseID != nil && *s.WarehouseID == warehouseID
	})
}

func (m *memStore) GetByItem(_ context.Context, itemID uint64) ([]domain.Sku, error) {
	return m.filter(func(s domain.Sku) bool { return s.ItemID == itemID })
}

func (m *memStore) filter(keep func(domain.Sku) bool) ([]domain.Sku, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := []domain.Sku{}
	for _, id := range m.order {
		if s := m.skus[id]; keep(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// memCache mirrors the generation protocol of the Redis cache.
type memCache struct {
	entries        map[uint64]domain.Sku
	gens           map[uint64]uint64
	invalidated    []uint64
	getErr         error
	invalidateErrs []error // consumed one per Invalidate call
}

func newMemCache() *memCache {
	return &memCache{entries: map[uint64]domain.Sku{}, gens: map[uint64]uint64{}}
}

func (c *memCache) Get(_ context.Context, skuID uint64) (*domain.Sku, uint64, error) {
	if c.getErr != nil {
		return nil, 0, c.getErr
	}
	s, ok := c.entries[skuID]
	if !ok {
		return nil, c.gens[skuID], nil
	}
	return &s, c.gens[skuID], nil
}

func (c *memCache) Fill(_ context.Context, s domain.Sku, gen uint64) error {
	if c.gens[*s.SkuID] != gen {
		return nil
	}
	c.entries[*s.SkuID] = s
	return nil
}

func (c *memCache) Invalidate(_ context.Context, skuIDs ...uint64) error {
	if len(c.invalidateErrs) > 0 {
		err := c.invalidateErrs[0]
		c.invalidateErrs = c.invalidateErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, id := range skuIDs {
		c.gens[id]++
		delete(c.entries, id)
	}
	c.invalidated = append(c.invalidated, skuIDs...)
	return nil
}

// interleavingStore runs afterGet once, right after a GetByID has read the store.
type interleavingStore struct {
	*memStore
	afterGet func()
}

func (s *interleavingStore) GetByID(ctx context.Context, skuID uint64) (*domain.Sku, error) {
	sku, err := s.memStore.GetByID(ctx, skuID)
	if hook := s.afterGet; hook != nil {
		s.afterGet = nil
		hook()
	}
	return sku, err
}

// txStore writes the outbox message with the batch, like the relational store.
type txStore struct {
	*memStore
	events []domain.OutboxMessage
}

func (s *txStore) ImportWithEvent(ctx context.Context, skus []domain.Sku, msg domain.OutboxMessage) error {
	if err := s.memStore.Import(ctx, skus); err != nil {
		return err
	}
	s.events = append(s.events, msg)
	return nil
}

type memOutboxRepo struct {
	msgs      []domain.OutboxMessage
	insertErr error
}

func (r *memOutboxRepo) Insert(_ context.Context, msg domain.OutboxMessage) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *memOutboxRepo) GetPendingBatch(_ context.Context, _, _ int) ([]domain.OutboxMessage, error) {
	return r.msgs, nil
}

func (r *memOutboxRepo) Save(_ context.Context, _ domain.OutboxMessage) error {
	return nil
}
