package dynamo

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

// Attribute names shared with the relational column names.
const (
	attrSkuID        = "sku_id"
	attrWarehouseID  = "warehouse_id"
	attrItemID       = "item_id"
	attrAmount       = "amount"
	attrCountryCode  = "country_code"
	attrAvailability = "availability"
	attrPriceAmount  = "price_amount"
	attrCurrencyCode = "currency_code"
	attrLastUpdated  = "last_updated"
)

// skuDocument is the stored shape of a SKU. Optional attributes use omitempty
// so an absent value never appears as a key, not even as NULL.
type skuDocument struct {
	SkuID        *uint64               `dynamodbav:"sku_id,omitempty"`
	WarehouseID  *uint64               `dynamodbav:"warehouse_id,omitempty"`
	ItemID       uint64                `dynamodbav:"item_id"`
	Amount       uint32                `dynamodbav:"amount"`
	CountryCode  string                `dynamodbav:"country_code"`
	Availability string                `dynamodbav:"availability"`
	PriceAmount  attributevalue.Number `dynamodbav:"price_amount,omitempty"`
	CurrencyCode string                `dynamodbav:"currency_code,omitempty"`
	LastUpdated  string                `dynamodbav:"last_updated,omitempty"`
}

func toDocument(s domain.Sku) skuDocument {
	doc := skuDocument{
		SkuID:        s.SkuID,
		WarehouseID:  s.WarehouseID,
		ItemID:       s.ItemID,
		Amount:       s.Amount,
		CountryCode:  s.CountryCode,
		Availability: s.Availability.String(),
	}
	if s.BasePrice != nil {
		doc.PriceAmount = attributevalue.Number(domain.MoneyToDecimal(*s.BasePrice).String())
		doc.CurrencyCode = s.BasePrice.CurrencyCode
	}
	if s.LastUpdated != nil {
		if t, ok := s.LastUpdated.Time(); ok {
			doc.LastUpdated = t.Format(time.RFC3339Nano)
		}
	}
	return doc
}

// encodeSku returns the attribute map for s.
func encodeSku(s domain.Sku) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(toDocument(s))
}

// decodeSku never fails. Each attribute is read on its own: a missing or
// malformed required attribute becomes its zero value, a malformed optional
// one is treated as absent.
func decodeSku(item map[string]types.AttributeValue) domain.Sku {
	var s domain.Sku

	var id uint64
	if readAttr(item, attrSkuID, &id) {
		s.SkuID = domain.Uint64Ptr(id)
	}
	var warehouse uint64
	if readAttr(item, attrWarehouseID, &warehouse) {
		s.WarehouseID = domain.Uint64Ptr(warehouse)
	}
	readAttr(item, attrItemID, &s.ItemID)
	readAttr(item, attrAmount, &s.Amount)
	readAttr(item, attrCountryCode, &s.CountryCode)

	var availability string
	readAttr(item, attrAvailability, &availability)
	s.Availability = domain.AvailabilityFromStorage(availability)

	var amount attributevalue.Number
	var currency string
	if readAttr(item, attrPriceAmount, &amount) && readAttr(item, attrCurrencyCode, &currency) {
		if d, err := decimal.NewFromString(string(amount)); err == nil {
			if m, ok := domain.MoneyFromDecimal(currency, d); ok {
				s.BasePrice = &m
			}
		}
	}

	var updated string
	if readAttr(item, attrLastUpdated, &updated) {
		if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
			s.LastUpdated = domain.TimestampPtr(t)
		}
	}
	return s
}

func readAttr(item map[string]types.AttributeValue, name string, out any) bool {
	av, ok := item[name]
	if !ok {
		return false
	}
	if _, isNull := av.(*types.AttributeValueMemberNULL); isNull {
		return false
	}
	return attributevalue.Unmarshal(av, out) == nil
}
