package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/growloan-api/internal/domain"
)

// AdminConfigRepo stores the singleton pricing record under a fixed key.
type AdminConfigRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAdminConfigRepo(client *dynamodb.Client, tableName string) *AdminConfigRepo {
	return &AdminConfigRepo{client: client, tableName: tableName}
}

func (r *AdminConfigRepo) Put(ctx context.Context, c *domain.AdminConfig) error {
	c.ConfigID = domain.AdminConfigID
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal admin config: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AdminConfigRepo) Get(ctx context.Context) (*domain.AdminConfig, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("config_id", domain.AdminConfigID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("admin config not found: %w", domain.ErrNotFound)
	}
	var c domain.AdminConfig
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
