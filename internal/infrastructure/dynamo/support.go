package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/growloan-api/internal/domain"
)

// TicketRepo provides typed DynamoDB operations for support tickets.
type TicketRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTicketRepo(client *dynamodb.Client, tableName string) *TicketRepo {
	return &TicketRepo{client: client, tableName: tableName}
}

func (r *TicketRepo) Put(ctx context.Context, t *domain.SupportTicket) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *TicketRepo) Get(ctx context.Context, ticketID string) (*domain.SupportTicket, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("ticket_id", ticketID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("ticket not found: %w", domain.ErrNotFound)
	}
	var t domain.SupportTicket
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByUser returns the user's tickets, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID string) ([]domain.SupportTicket, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-created_at-index"),
		KeyConditionExpression:    aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": &types.AttributeValueMemberS{Value: userID}},
		ScanIndexForward:          aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var tickets []domain.SupportTicket
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *TicketRepo) Scan(ctx context.Context) ([]domain.SupportTicket, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	var tickets []domain.SupportTicket
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *TicketRepo) Update(ctx context.Context, ticketID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("ticket_id", ticketID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

// CallbackRepo provides typed DynamoDB operations for callback requests.
type CallbackRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCallbackRepo(client *dynamodb.Client, tableName string) *CallbackRepo {
	return &CallbackRepo{client: client, tableName: tableName}
}

func (r *CallbackRepo) Put(ctx context.Context, c *domain.CallbackRequest) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal callback request: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CallbackRepo) Get(ctx context.Context, callbackID string) (*domain.CallbackRequest, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("callback_id", callbackID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("callback request not found: %w", domain.ErrNotFound)
	}
	var c domain.CallbackRequest
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CallbackRepo) ListByUser(ctx context.Context, userID string) ([]domain.CallbackRequest, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-index"),
		KeyConditionExpression:    aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": &types.AttributeValueMemberS{Value: userID}},
	})
	if err != nil {
		return nil, err
	}
	var callbacks []domain.CallbackRequest
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &callbacks); err != nil {
		return nil, err
	}
	return callbacks, nil
}

func (r *CallbackRepo) Scan(ctx context.Context) ([]domain.CallbackRequest, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	var callbacks []domain.CallbackRequest
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &callbacks); err != nil {
		return nil, err
	}
	return callbacks, nil
}

func (r *CallbackRepo) Update(ctx context.Context, callbackID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("callback_id", callbackID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}
