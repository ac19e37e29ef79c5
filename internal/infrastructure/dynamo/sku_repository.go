package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
)

// maxTransactItems is the TransactWriteItems action limit.
const maxTransactItems = 100

// API is the subset of the DynamoDB client used by SkuRepository.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// SkuRepository stores SKUs as DynamoDB items keyed by sku_id.
type SkuRepository struct {
	client API
	config Config
}

var _ domain.SkuStore = (*SkuRepository)(nil)

// NewSkuRepository creates a repository over client.
func NewSkuRepository(client API, config Config) *SkuRepository {
	config.validate()
	return &SkuRepository{client: client, config: config}
}

// Import upserts every record. item_id and country_code are only written when
// the item does not exist yet; the remaining attributes are replaced and
// absent optional attributes are removed.
//
// Records are written in chunks of 100 through TransactWriteItems, so a batch
// is atomic per chunk. A transaction cannot touch one item twice, so repeated
// sku_ids are collapsed first: the last occurrence wins for mutable
// attributes and the first for set-once attributes.
func (r *SkuRepository) Import(ctx context.Context, skus []domain.Sku) error {
	if len(skus) == 0 {
		return nil
	}

	merged := collapseDuplicates(skus)
	for start := 0; start < len(merged); start += maxTransactItems {
		end := min(start+maxTransactItems, len(merged))

		items := make([]types.TransactWriteItem, 0, end-start)
		for _, s := range merged[start:end] {
			update, err := r.buildUpdate(s)
			if err != nil {
				return err
			}
			items = append(items, types.TransactWriteItem{Update: update})
		}

		if _, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: items,
		}); err != nil {
			return fmt.Errorf("write chunk at record %d: %w", start, err)
		}
	}
	return nil
}

// GetByID returns domain.ErrNotFound when the item does not exist.
func (r *SkuRepository) GetByID(ctx context.Context, skuID uint64) (*domain.Sku, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.config.Table),
		Key: map[string]types.AttributeValue{
			attrSkuID: numberAttr(skuID),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, domain.ErrNotFound
	}

	s := decodeSku(result.Item)
	return &s, nil
}

// GetByWarehouse queries the warehouse_id index.
func (r *SkuRepository) GetByWarehouse(ctx context.Context, warehouseID uint64) ([]domain.Sku, error) {
	return r.queryIndex(ctx, r.config.WarehouseIndex, attrWarehouseID, warehouseID)
}

// GetByItem queries the item_id index.
func (r *SkuRepository) GetByItem(ctx context.Context, itemID uint64) ([]domain.Sku, error) {
	return r.queryIndex(ctx, r.config.ItemIndex, attrItemID, itemID)
}

func (r *SkuRepository) queryIndex(ctx context.Context, index, attr string, value uint64) ([]domain.Sku, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.config.Table),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#key = :key"),
		ExpressionAttributeNames: map[string]string{
			"#key": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":key": numberAttr(value),
		},
	}

	result := []domain.Sku{}
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			result = append(result, decodeSku(raw))
		}
	}
	return result, nil
}

// buildUpdate turns one record into an Update action.
func (r *SkuRepository) buildUpdate(s domain.Sku) (*types.Update, error) {
	item, err := encodeSku(s)
	if err != nil {
		return nil, fmt.Errorf("marshal sku: %w", err)
	}
	key, ok := item[attrSkuID]
	if !ok {
		return nil, fmt.Errorf("%w: skuId is required", domain.ErrInvalidInput)
	}

	exprNames := map[string]string{}
	exprValues := map[string]types.AttributeValue{}
	var setClauses, removeNames []string

	i := 0
	placeholders := func(attr string) (string, string) {
		nameKey := fmt.Sprintf("#attr%d", i)
		valueKey := fmt.Sprintf(":val%d", i)
		exprNames[nameKey] = attr
		i++
		return nameKey, valueKey
	}

	for _, attr := range []string{attrItemID, attrCountryCode} {
		nameKey, valueKey := placeholders(attr)
		exprValues[valueKey] = item[attr]
		setClauses = append(setClauses, fmt.Sprintf("%s = if_not_exists(%s, %s)", nameKey, nameKey, valueKey))
	}

	mutable := []string{
		attrWarehouseID, attrAmount, attrAvailability,
		attrPriceAmount, attrCurrencyCode, attrLastUpdated,
	}
	for _, attr := range mutable {
		nameKey, valueKey := placeholders(attr)
		if v, present := item[attr]; present {
			exprValues[valueKey] = v
			setClauses = append(setClauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		} else {
			removeNames = append(removeNames, nameKey)
		}
	}

	expr := "SET " + strings.Join(setClauses, ", ")
	if len(removeNames) > 0 {
		expr += " REMOVE " + strings.Join(removeNames, ", ")
	}

	return &types.Update{
		TableName:                 aws.String(r.config.Table),
		Key:                       map[string]types.AttributeValue{attrSkuID: key},
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
	}, nil
}

// collapseDuplicates keeps one record per sku_id in order of first appearance.
func collapseDuplicates(skus []domain.Sku) []domain.Sku {
	index := make(map[uint64]int, len(skus))
	out := make([]domain.Sku, 0, len(skus))
	for _, s := range skus {
		if s.SkuID == nil {
			out = append(out, s)
			continue
		}
		pos, seen := index[*s.SkuID]
		if !seen {
			index[*s.SkuID] = len(out)
			out = append(out, s)
			continue
		}
		first := out[pos]
		s.ItemID = first.ItemID
		s.CountryCode = first.CountryCode
		out[pos] = s
	}
	return out
}

func numberAttr(v uint64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatUint(v, 10)}
}
