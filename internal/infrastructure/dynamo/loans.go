package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/growloan-api/internal/domain"
)

// LoanRepo provides typed DynamoDB operations for the loans table.
// All mutations go through UpdateVersioned so concurrent writers (two
// admins, or an admin racing the disbursement sweep) lose cleanly with a
// conflict instead of overwriting each other.
type LoanRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLoanRepo(client *dynamodb.Client, tableName string) *LoanRepo {
	return &LoanRepo{client: client, tableName: tableName}
}

func (r *LoanRepo) Put(ctx context.Context, l *domain.Loan) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal loan: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(loan_id)"),
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return fmt.Errorf("loan already exists: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *LoanRepo) Get(ctx context.Context, loanID string) (*domain.Loan, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("loan_id", loanID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("loan not found: %w", domain.ErrNotFound)
	}
	var l domain.Loan
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByUser returns the user's loans, newest first.
func (r *LoanRepo) ListByUser(ctx context.Context, userID string) ([]domain.Loan, error) {
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
	var loans []domain.Loan
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// ListByStatus returns every loan in the given status via the status GSI.
func (r *LoanRepo) ListByStatus(ctx context.Context, status string) ([]domain.Loan, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("status-index"),
		KeyConditionExpression:    aws.String("#s = :s"),
		ExpressionAttributeNames:  map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":s": &types.AttributeValueMemberS{Value: status}},
	})
	if err != nil {
		return nil, err
	}
	var loans []domain.Loan
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// ScanPage returns a page of loans for admin listings and exports.
func (r *LoanRepo) ScanPage(ctx context.Context, limit int, cursor string) ([]domain.Loan, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(int32(limit)),
	}
	if cursor != "" {
		loanID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = map[string]types.AttributeValue{
			"loan_id": &types.AttributeValueMemberS{Value: loanID},
		}
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var loans []domain.Loan
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &loans); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["loan_id"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return loans, nextCursor, nil
}

// UpdateVersioned applies updates only if the stored version still equals
// expectedVersion, bumping version and updated_at in the same write. A
// failed condition surfaces as domain.ErrConflict; the caller refetches
// and retries or reports the race.
func (r *LoanRepo) UpdateVersioned(ctx context.Context, loanID string, expectedVersion int64, updates map[string]interface{}) error {
	updates["version"] = expectedVersion + 1
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	names["#ver"] = "version"
	values[":expected"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("loan_id", loanID),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("#ver = :expected"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return fmt.Errorf("loan was modified concurrently: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}
