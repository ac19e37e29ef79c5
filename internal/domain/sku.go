package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

type Availability int32

const (
	ReadyToShip Availability = iota
	MadeToOrder
	OpenBox
	Used
	Refurbished
)

var availabilityNames = map[Availability]string{
	ReadyToShip: "READY_TO_SHIP",
	MadeToOrder: "MADE_TO_ORDER",
	OpenBox:     "OPEN_BOX",
	Used:        "USED",
	Refurbished: "REFURBISHED",
}

var availabilityByName = map[string]Availability{
	"READY_TO_SHIP": ReadyToShip,
	"MADE_TO_ORDER": MadeToOrder,
	"OPEN_BOX":      OpenBox,
	"USED":          Used,
	"REFURBISHED":   Refurbished,
}

// String returns the storage name. Values outside the enum render as READY_TO_SHIP.
func (a Availability) String() string {
	if name, ok := availabilityNames[a]; ok {
		return name
	}
	return availabilityNames[ReadyToShip]
}

// Valid reports whether a is one of the five known values.
func (a Availability) Valid() bool {
	_, ok := availabilityNames[a]
	return ok
}

// ParseAvailability is strict: unknown names return ok=false.
func ParseAvailability(name string) (Availability, bool) {
	a, ok := availabilityByName[name]
	return a, ok
}

// AvailabilityFromStorage is the fail-open decoder used for persisted values.
// Anything unrecognized decodes to ReadyToShip.
func AvailabilityFromStorage(name string) Availability {
	if a, ok := availabilityByName[name]; ok {
		return a
	}
	return ReadyToShip
}

func (a Availability) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts the enum name or its number. Unknown names and out of
// range numbers are rejected so bad input never reaches storage.
func (a *Availability) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ReadyToShip
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		if name == "" {
			*a = ReadyToShip
			return nil
		}
		v, ok := ParseAvailability(name)
		if !ok {
			return fmt.Errorf("unknown availability %q", name)
		}
		*a = v
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 32)
	if err != nil {
		return fmt.Errorf("invalid availability %s", data)
	}
	v := Availability(n)
	if !v.Valid() {
		return fmt.Errorf("unknown availability %d", n)
	}
	*a = v
	return nil
}

// Money mirrors google.type.Money: units plus nanos (10^-9) of the currency.
type Money struct {
	CurrencyCode string `json:"currencyCode"`
	Units        int64  `json:"units"`
	Nanos        int32  `json:"nanos"`
}

// Sku is the canonical stock-keeping-unit record, shared by the wire and both stores.
type Sku struct {
	SkuID        *uint64      `json:"skuId,omitempty"`
	WarehouseID  *uint64      `json:"warehouseId,omitempty"`
	ItemID       uint64       `json:"itemId"`
	Amount       uint32       `json:"amount"`
	CountryCode  string       `json:"countryCode"`
	Availability Availability `json:"availability"`
	BasePrice    *Money       `json:"basePrice,omitempty"`
	LastUpdated  *Timestamp   `json:"lastUpdated,omitempty"`
}

func Uint64Ptr(v uint64) *uint64 { return &v }

// Validate checks a record before it is written. Both stores key on sku_id and
// keep ids in signed 64-bit columns, amount in a signed 32-bit column.
func (s *Sku) Validate() error {
	if s.SkuID == nil {
		return fmt.Errorf("%w: skuId is required", ErrInvalidInput)
	}
	if *s.SkuID > math.MaxInt64 {
		return fmt.Errorf("%w: skuId %d out of range", ErrInvalidInput, *s.SkuID)
	}
	if s.WarehouseID != nil && *s.WarehouseID > math.MaxInt64 {
		return fmt.Errorf("%w: warehouseId %d out of range", ErrInvalidInput, *s.WarehouseID)
	}
	if s.ItemID > math.MaxInt64 {
		return fmt.Errorf("%w: itemId %d out of range", ErrInvalidInput, s.ItemID)
	}
	if s.Amount > math.MaxInt32 {
		return fmt.Errorf("%w: amount %d out of range", ErrInvalidInput, s.Amount)
	}
	if s.CountryCode == "" {
		return fmt.Errorf("%w: countryCode is required", ErrInvalidInput)
	}
	if !s.Availability.Valid() {
		return fmt.Errorf("%w: unknown availability %d", ErrInvalidInput, s.Availability)
	}
	if s.BasePrice != nil {
		if err := s.BasePrice.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate enforces the google.type.Money sign and range rules.
func (m Money) Validate() error {
	if m.CurrencyCode == "" {
		return fmt.Errorf("%w: basePrice.currencyCode is required", ErrInvalidInput)
	}
	if m.Nanos <= -nanosPerUnit || m.Nanos >= nanosPerUnit {
		return fmt.Errorf("%w: basePrice.nanos %d out of range", ErrInvalidInput, m.Nanos)
	}
	if (m.Units > 0 && m.Nanos < 0) || (m.Units < 0 && m.Nanos > 0) {
		return fmt.Errorf("%w: basePrice units and nanos differ in sign", ErrInvalidInput)
	}
	return nil
}
