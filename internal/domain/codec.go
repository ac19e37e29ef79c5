package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const nanosPerUnit = 1_000_000_000

// Bounds of a valid Timestamp: 0001-01-01T00:00:00Z to 9999-12-31T23:59:59Z.
const (
	minTimestampSeconds = -62135596800
	maxTimestampSeconds = 253402300799
)

// Timestamp mirrors google.protobuf.Timestamp.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

// Time converts to a UTC time. ok is false when seconds or nanos are out of
// range; callers treat that as an absent timestamp.
func (ts Timestamp) Time() (time.Time, bool) {
	if ts.Seconds < minTimestampSeconds || ts.Seconds > maxTimestampSeconds {
		return time.Time{}, false
	}
	if ts.Nanos < 0 || ts.Nanos >= nanosPerUnit {
		return time.Time{}, false
	}
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC(), true
}

func TimestampFromTime(t time.Time) Timestamp {
	t = t.UTC()
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// TimestampPtr converts t and returns nil if the result is out of range.
func TimestampPtr(t time.Time) *Timestamp {
	ts := TimestampFromTime(t)
	if _, ok := ts.Time(); !ok {
		return nil
	}
	return &ts
}

// MoneyToDecimal returns units + nanos/1e9 exactly.
func MoneyToDecimal(m Money) decimal.Decimal {
	return decimal.NewFromInt(m.Units).Add(decimal.New(int64(m.Nanos), -9))
}

// MoneyFromDecimal splits d into truncated units and rounded nanos. ok is false
// when the integer part does not fit in int64.
func MoneyFromDecimal(currency string, d decimal.Decimal) (Money, bool) {
	whole := d.Truncate(0)
	if whole.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || whole.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return Money{}, false
	}
	units := whole.IntPart()
	nanos := d.Sub(whole).Shift(9).Round(0).IntPart()

	// rounding the fraction can reach a whole unit
	if nanos >= nanosPerUnit {
		if units == math.MaxInt64 {
			return Money{}, false
		}
		units++
		nanos -= nanosPerUnit
	} else if nanos <= -nanosPerUnit {
		if units == math.MinInt64 {
			return Money{}, false
		}
		units--
		nanos += nanosPerUnit
	}
	return Money{CurrencyCode: currency, Units: units, Nanos: int32(nanos)}, true
}

// MoneyToFloat64 is the relational encoding. It is lossy: a double carries about
// 15-17 significant digits, so large units with fine nanos lose precision.
func MoneyToFloat64(m Money) float64 {
	return MoneyToDecimal(m).InexactFloat64()
}

// MoneyFromFloat64 decodes a stored double. NaN, infinities and values outside
// the int64 range give ok=false.
func MoneyFromFloat64(currency string, f float64) (Money, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}, false
	}
	return MoneyFromDecimal(currency, decimal.NewFromFloat(f))
}
