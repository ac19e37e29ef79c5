package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// NewClient loads the default AWS configuration for region. A non-empty
// endpoint overrides the service URL, e.g. http://localhost:8000 for
// DynamoDB Local.
func NewClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// EnsureTable creates the SKU table and its two indexes when missing and waits
// until the table is active. An existing table is left untouched.
func EnsureTable(ctx context.Context, client *dynamodb.Client, cfg Config) error {
	cfg.validate()

	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(cfg.Table),
	})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table %s: %w", cfg.Table, err)
	}

	log.Info().Str("table", cfg.Table).Msg("creating dynamodb table")

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(cfg.Table),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrSkuID), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrSkuID), AttributeType: types.ScalarAttributeTypeN},
			{AttributeName: aws.String(attrWarehouseID), AttributeType: types.ScalarAttributeTypeN},
			{AttributeName: aws.String(attrItemID), AttributeType: types.ScalarAttributeTypeN},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(cfg.WarehouseIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(attrWarehouseID), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
			{
				IndexName: aws.String(cfg.ItemIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(attrItemID), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", cfg.Table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(cfg.Table),
	}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table %s: %w", cfg.Table, err)
	}
	return nil
}
