package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

type PgOutboxRepository struct {
	db *sqlx.DB
}

func NewPgOutboxRepository(db *sqlx.DB) *PgOutboxRepository {
	return &PgOutboxRepository{db: db}
}

type outboxRow struct {
	ID             uuid.UUID    `db:"id"`
	Type           string       `db:"type"`
	PayloadJSON    string       `db:"payload_json"`
	OccurredAtSec  float64      `db:"occurred_at_sec"`
	RetryCount     int          `db:"retry_count"`
	ProcessedAtUtc sql.NullTime `db:"processed_at_utc"`
}

func (r *PgOutboxRepository) Insert(
	ctx context.Context,
	msg domain.OutboxMessage,
) error {
	return insertOutboxMessage(ctx, r.db, msg)
}

// insertOutboxMessage runs on the pool or inside an import transaction.
func insertOutboxMessage(ctx context.Context, exec sqlx.ExecerContext, msg domain.OutboxMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.OccurredAtUtc == 0 {
		msg.OccurredAtUtc = time.Now().UTC().Unix()
	}

	q := `
        insert into outbox_messages
        (id, type, payload_json, occurred_at_utc, retry_count, processed_at_utc)
        values ($1,$2,$3,to_timestamp($4),$5,null)
    `
	_, err := exec.ExecContext(
		ctx, q,
		msg.ID,
		msg.Type,
		msg.PayloadJSON,
		msg.OccurredAtUtc,
		msg.RetryCount,
	)
	return err
}

func (r *PgOutboxRepository) GetPendingBatch(
	ctx context.Context,
	maxRetry, batchSize int,
) ([]domain.OutboxMessage, error) {
	q := `
        select id, type, payload_json,
               extract(epoch from occurred_at_utc)::float8 as occurred_at_sec,
               retry_count,
               processed_at_utc
        from outbox_messages
        where processed_at_utc is null
          and retry_count < $1
        order by occurred_at_utc asc
        limit $2
    `
	var rows []outboxRow
	if err := r.db.SelectContext(ctx, &rows, q, maxRetry, batchSize); err != nil {
		return nil, err
	}

	result := make([]domain.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		msg := domain.OutboxMessage{
			ID:            row.ID,
			Type:          row.Type,
			PayloadJSON:   row.PayloadJSON,
			OccurredAtUtc: int64(row.OccurredAtSec),
			RetryCount:    row.RetryCount,
		}
		if row.ProcessedAtUtc.Valid {
			t := row.ProcessedAtUtc.Time.Unix()
			msg.ProcessedAtUtc = &t
		}
		result = append(result, msg)
	}
	return result, nil
}

func (r *PgOutboxRepository) Save(
	ctx context.Context,
	msg domain.OutboxMessage,
) error {
	if msg.ID == uuid.Nil {
		return errors.New("outbox message id is empty")
	}

	// NullFloat64 keeps $3 typed as double precision even when NULL
	var processed sql.NullFloat64
	if msg.ProcessedAtUtc != nil {
		processed = sql.NullFloat64{Float64: float64(*msg.ProcessedAtUtc), Valid: true}
	}

	q := `
        update outbox_messages
        set retry_count = $2,
            processed_at_utc = coalesce(to_timestamp($3), processed_at_utc)
        where id = $1
    `
	_, err := r.db.ExecContext(
		ctx, q,
		msg.ID,
		msg.RetryCount,
		processed,
	)
	return err
}
