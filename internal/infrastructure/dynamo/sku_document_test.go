package dynamo

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

func TestEncodeSku_OmitsAbsentOptionals(t *testing.T) {
	item, err := encodeSku(domain.Sku{
		SkuID:        domain.Uint64Ptr(1),
		ItemID:       100,
		Amount:       5,
		CountryCode:  "US",
		Availability: domain.MadeToOrder,
	})
	if err != nil {
		t.Fatalf("encodeSku: %v", err)
	}

	for _, attr := range []string{attrWarehouseID, attrPriceAmount, attrCurrencyCode, attrLastUpdated} {
		if _, ok := item[attr]; ok {
			t.Errorf("expected %s to be absent", attr)
		}
	}

	tests := []struct {
		attr     string
		expected types.AttributeValue
	}{
		{attrSkuID, &types.AttributeValueMemberN{Value: "1"}},
		{attrItemID, &types.AttributeValueMemberN{Value: "100"}},
		{attrAmount, &types.AttributeValueMemberN{Value: "5"}},
		{attrCountryCode, &types.AttributeValueMemberS{Value: "US"}},
		{attrAvailability, &types.AttributeValueMemberS{Value: "MADE_TO_ORDER"}},
	}
	for _, tt := range tests {
		switch want := tt.expected.(type) {
		case *types.AttributeValueMemberN:
			got, ok := item[tt.attr].(*types.AttributeValueMemberN)
			if !ok || got.Value != want.Value {
				t.Errorf("%s: expected N %s, got %#v", tt.attr, want.Value, item[tt.attr])
			}
		case *types.AttributeValueMemberS:
			got, ok := item[tt.attr].(*types.AttributeValueMemberS)
			if !ok || got.Value != want.Value {
				t.Errorf("%s: expected S %s, got %#v", tt.attr, want.Value, item[tt.attr])
			}
		}
	}
}

func TestEncodeSku_MoneyAndTimestamp(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 5, time.UTC)
	item, err := encodeSku(domain.Sku{
		SkuID:       domain.Uint64Ptr(1),
		CountryCode: "US",
		BasePrice:   &domain.Money{CurrencyCode: "EUR", Units: -3, Nanos: -500_000_000},
		LastUpdated: domain.TimestampPtr(ts),
	})
	if err != nil {
		t.Fatalf("encodeSku: %v", err)
	}

	price, ok := item[attrPriceAmount].(*types.AttributeValueMemberN)
	if !ok || price.Value != "-3.5" {
		t.Errorf("expected price -3.5, got %#v", item[attrPriceAmount])
	}
	currency, ok := item[attrCurrencyCode].(*types.AttributeValueMemberS)
	if !ok || currency.Value != "EUR" {
		t.Errorf("expected currency EUR, got %#v", item[attrCurrencyCode])
	}
	updated, ok := item[attrLastUpdated].(*types.AttributeValueMemberS)
	if !ok || updated.Value != "2024-05-01T12:00:00.000000005Z" {
		t.Errorf("unexpected last_updated %#v", item[attrLastUpdated])
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	in := domain.Sku{
		SkuID:        domain.Uint64Ptr(9),
		WarehouseID:  domain.Uint64Ptr(3),
		ItemID:       44,
		Amount:       12,
		CountryCode:  "CA",
		Availability: domain.Refurbished,
		BasePrice:    &domain.Money{CurrencyCode: "CAD", Units: 123456789, Nanos: 987654321},
		LastUpdated:  &domain.Timestamp{Seconds: 1700000000, Nanos: 42},
	}

	item, err := encodeSku(in)
	if err != nil {
		t.Fatalf("encodeSku: %v", err)
	}
	out := decodeSku(item)

	if *out.SkuID != 9 || *out.WarehouseID != 3 || out.ItemID != 44 || out.Amount != 12 {
		t.Errorf("unexpected ids: %+v", out)
	}
	if out.CountryCode != "CA" || out.Availability != domain.Refurbished {
		t.Errorf("unexpected fields: %+v", out)
	}
	if out.BasePrice == nil || *out.BasePrice != *in.BasePrice {
		t.Errorf("expected exact price %+v, got %+v", in.BasePrice, out.BasePrice)
	}
	if out.LastUpdated == nil || *out.LastUpdated != *in.LastUpdated {
		t.Errorf("expected %+v, got %+v", in.LastUpdated, out.LastUpdated)
	}
}

func TestDecodeSku_FailOpen(t *testing.T) {
	item := map[string]types.AttributeValue{
		attrSkuID:        &types.AttributeValueMemberN{Value: "1"},
		attrWarehouseID:  &types.AttributeValueMemberNULL{Value: true},
		attrAmount:       &types.AttributeValueMemberS{Value: "lots"},
		attrAvailability: &types.AttributeValueMemberS{Value: "LOST"},
		attrPriceAmount:  &types.AttributeValueMemberN{Value: "10"},
		attrLastUpdated:  &types.AttributeValueMemberS{Value: "yesterday"},
	}

	s := decodeSku(item)

	if s.SkuID == nil || *s.SkuID != 1 {
		t.Errorf("expected sku id 1, got %v", s.SkuID)
	}
	if s.WarehouseID != nil {
		t.Errorf("expected NULL warehouse to be absent, got %v", *s.WarehouseID)
	}
	if s.ItemID != 0 || s.Amount != 0 || s.CountryCode != "" {
		t.Errorf("expected zero defaults, got %+v", s)
	}
	if s.Availability != domain.ReadyToShip {
		t.Errorf("expected READY_TO_SHIP, got %v", s.Availability)
	}
	if s.BasePrice != nil {
		t.Errorf("expected price without currency to be absent, got %+v", s.BasePrice)
	}
	if s.LastUpdated != nil {
		t.Errorf("expected malformed timestamp to be absent, got %+v", s.LastUpdated)
	}
}
