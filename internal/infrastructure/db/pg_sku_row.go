package db

import (
	"database/sql"
	"time"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

// timestamptz keeps microseconds; nanos are rounded before the value is sent.
const timestampPrecision = time.Microsecond

// skuRow is the typed shape of a skus row. Every column is nullable here so a
// row written by another client never fails to scan.
type skuRow struct {
	SkuID        sql.NullInt64   `db:"sku_id"`
	WarehouseID  sql.NullInt64   `db:"warehouse_id"`
	ItemID       sql.NullInt64   `db:"item_id"`
	Amount       sql.NullInt32   `db:"amount"`
	CountryCode  sql.NullString  `db:"country_code"`
	Availability sql.NullString  `db:"availability"`
	PriceAmount  sql.NullFloat64 `db:"price_amount"`
	CurrencyCode sql.NullString  `db:"currency_code"`
	LastUpdated  sql.NullTime    `db:"last_updated"`
}

// toSkuRow assumes s passed domain validation, so ids fit in int64 and amount in int32.
func toSkuRow(s domain.Sku) skuRow {
	row := skuRow{
		ItemID:       sql.NullInt64{Int64: int64(s.ItemID), Valid: true},
		Amount:       sql.NullInt32{Int32: int32(s.Amount), Valid: true},
		CountryCode:  sql.NullString{String: s.CountryCode, Valid: true},
		Availability: sql.NullString{String: s.Availability.String(), Valid: true},
	}
	if s.SkuID != nil {
		row.SkuID = sql.NullInt64{Int64: int64(*s.SkuID), Valid: true}
	}
	if s.WarehouseID != nil {
		row.WarehouseID = sql.NullInt64{Int64: int64(*s.WarehouseID), Valid: true}
	}
	if s.BasePrice != nil {
		row.PriceAmount = sql.NullFloat64{Float64: domain.MoneyToFloat64(*s.BasePrice), Valid: true}
		row.CurrencyCode = sql.NullString{String: s.BasePrice.CurrencyCode, Valid: true}
	}
	if s.LastUpdated != nil {
		if t, ok := s.LastUpdated.Time(); ok {
			row.LastUpdated = sql.NullTime{Time: t.Round(timestampPrecision), Valid: true}
		}
	}
	return row
}

// toSku never fails: NULL optional columns become absent fields, NULL required
// columns become zero values and an unknown availability reads as READY_TO_SHIP.
func (r skuRow) toSku() domain.Sku {
	var s domain.Sku
	if r.SkuID.Valid && r.SkuID.Int64 >= 0 {
		s.SkuID = domain.Uint64Ptr(uint64(r.SkuID.Int64))
	}
	if r.WarehouseID.Valid && r.WarehouseID.Int64 >= 0 {
		s.WarehouseID = domain.Uint64Ptr(uint64(r.WarehouseID.Int64))
	}
	if r.ItemID.Valid && r.ItemID.Int64 >= 0 {
		s.ItemID = uint64(r.ItemID.Int64)
	}
	if r.Amount.Valid && r.Amount.Int32 >= 0 {
		s.Amount = uint32(r.Amount.Int32)
	}
	s.CountryCode = r.CountryCode.String
	s.Availability = domain.AvailabilityFromStorage(r.Availability.String)

	// price needs both columns
	if r.PriceAmount.Valid && r.CurrencyCode.Valid {
		if m, ok := domain.MoneyFromFloat64(r.CurrencyCode.String, r.PriceAmount.Float64); ok {
			s.BasePrice = &m
		}
	}
	if r.LastUpdated.Valid {
		s.LastUpdated = domain.TimestampPtr(r.LastUpdated.Time)
	}
	return s
}
