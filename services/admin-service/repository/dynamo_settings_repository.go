package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/solartech/storefront/services/admin-service/models"
)

// SettingsHashKey is the partition key attribute of the settings table.
const SettingsHashKey = "id"

// DynamoSettingsRepository keeps the settings document as one item keyed by
// models.SettingsKey.
type DynamoSettingsRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoSettingsRepository(client *dynamodb.Client, table string) *DynamoSettingsRepository {
	return &DynamoSettingsRepository{client: client, table: table}
}

type ddbSettings struct {
	ID string `dynamodbav:"id"`
	models.StoreSettings
}

func (r *DynamoSettingsRepository) Get(ctx context.Context) (*models.StoreSettings, error) {
	key, err := attributevalue.MarshalMap(map[string]string{SettingsHashKey: models.SettingsKey})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            key,
		ConsistentRead: boolPtr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrSettingsNotFound
	}

	var item ddbSettings
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return &item.StoreSettings, nil
}

func (r *DynamoSettingsRepository) Save(ctx context.Context, settings *models.StoreSettings) error {
	item, err := attributevalue.MarshalMap(ddbSettings{ID: models.SettingsKey, StoreSettings: *settings})
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.table,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }
