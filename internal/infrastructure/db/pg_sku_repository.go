package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

const skuColumns = `
        sku_id, warehouse_id, item_id, amount, country_code,
        availability::text as availability,
        price_amount, currency_code, last_updated
`

// item_id and country_code are left out of the update set: they keep the
// value of the first insert.
const upsertSkuQuery = `
        insert into skus
        (sku_id, warehouse_id, item_id, amount, country_code, availability, price_amount, currency_code, last_updated)
        values (:sku_id, :warehouse_id, :item_id, :amount, :country_code,
                cast(:availability as availability_type),
                :price_amount, :currency_code, :last_updated)
        on conflict (sku_id) do update
        set warehouse_id = excluded.warehouse_id,
            amount = excluded.amount,
            availability = excluded.availability,
            price_amount = excluded.price_amount,
            currency_code = excluded.currency_code,
            last_updated = excluded.last_updated
`

type PgSkuRepository struct {
	db *sqlx.DB
}

func NewPgSkuRepository(db *sqlx.DB) *PgSkuRepository {
	return &PgSkuRepository{db: db}
}

var _ domain.EventSkuStore = (*PgSkuRepository)(nil)

// Import applies the whole batch in one transaction with a single prepared
// upsert, executed once per record in input order. Any failure rolls back
// every row of the batch.
func (r *PgSkuRepository) Import(ctx context.Context, skus []domain.Sku) error {
	return r.importBatch(ctx, skus, nil)
}

// ImportWithEvent is Import plus an outbox_messages insert in the same
// transaction: the event exists if and only if the batch committed.
func (r *PgSkuRepository) ImportWithEvent(ctx context.Context, skus []domain.Sku, msg domain.OutboxMessage) error {
	return r.importBatch(ctx, skus, &msg)
}

func (r *PgSkuRepository) importBatch(ctx context.Context, skus []domain.Sku, event *domain.OutboxMessage) error {
	if len(skus) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, upsertSkuQuery)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i, s := range skus {
		if _, err := stmt.ExecContext(ctx, toSkuRow(s)); err != nil {
			return fmt.Errorf("upsert record %d: %w", i, err)
		}
	}

	if event != nil {
		if err := insertOutboxMessage(ctx, tx, *event); err != nil {
			return fmt.Errorf("insert outbox message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PgSkuRepository) GetByID(ctx context.Context, skuID uint64) (*domain.Sku, error) {
	q := `select ` + skuColumns + ` from skus where sku_id = $1 limit 1`

	var row skuRow
	if err := r.db.GetContext(ctx, &row, q, int64(skuID)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s := row.toSku()
	return &s, nil
}

func (r *PgSkuRepository) GetByWarehouse(ctx context.Context, warehouseID uint64) ([]domain.Sku, error) {
	return r.list(ctx, `select `+skuColumns+` from skus where warehouse_id = $1 order by sku_id`, warehouseID)
}

func (r *PgSkuRepository) GetByItem(ctx context.Context, itemID uint64) ([]domain.Sku, error) {
	return r.list(ctx, `select `+skuColumns+` from skus where item_id = $1 order by sku_id`, itemID)
}

func (r *PgSkuRepository) list(ctx context.Context, q string, id uint64) ([]domain.Sku, error) {
	var rows []skuRow
	if err := r.db.SelectContext(ctx, &rows, q, int64(id)); err != nil {
		return nil, err
	}

	result := make([]domain.Sku, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toSku())
	}
	return result, nil
}
