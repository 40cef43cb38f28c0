package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/chris/marketplace-settlements/pkg/storage"
)

// CreateRecord persists a new settlement record. The conditional put guards
// against ID collisions; records are never overwritten.
func (s *Store) CreateRecord(ctx context.Context, rec *models.SettlementRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.SettlementsTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("settlement record %s already exists", rec.Id)
		}
		return fmt.Errorf("failed to create settlement record in DynamoDB: %w", err)
	}

	return nil
}

// GetRecord retrieves a settlement record from DynamoDB by its ID.
func (s *Store) GetRecord(ctx context.Context, id string) (*models.SettlementRecord, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settlement ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.SettlementsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement record from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrRecordNotFound
	}

	var rec models.SettlementRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settlement record: %w", err)
	}

	return &rec, nil
}

// terminalTimestampAttr maps a target status to the timestamp attribute it stamps.
func terminalTimestampAttr(to models.SettlementStatus) string {
	switch to {
	case models.PROCESSING:
		return "processing_started_at"
	case models.COMPLETED:
		return "completed_at"
	case models.FAILED:
		return "failed_at"
	case models.CANCELLED:
		return "cancelled_at"
	}
	return ""
}

// TransitionState atomically moves a record between statuses using a conditional
// update, mirroring the one-way lifecycle. A failed condition means the record
// was not in the expected status (raced with another transition) and surfaces as
// ErrInvalidStateTransition.
func (s *Store) TransitionState(ctx context.Context, id string, from, to models.SettlementStatus, reason string) error {
	now := time.Now()
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("failed to marshal transition timestamp: %w", err)
	}

	updateExpr := "SET #status = :to, updated_at = :now"
	exprValues := map[string]types.AttributeValue{
		":to":   &types.AttributeValueMemberS{Value: string(to)},
		":from": &types.AttributeValueMemberS{Value: string(from)},
		":now":  nowAV,
	}

	if attr := terminalTimestampAttr(to); attr != "" {
		updateExpr += fmt.Sprintf(", %s = :now", attr)
	}
	if reason != "" {
		updateExpr += ", failure_reason = :reason"
		exprValues[":reason"] = &types.AttributeValueMemberS{Value: reason}
	}

	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.SettlementsTableName),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
		UpdateExpression:    aws.String(updateExpr),
		ConditionExpression: aws.String("attribute_exists(id) AND #status = :from"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: exprValues,
	}

	_, err = s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrInvalidStateTransition
		}
		return fmt.Errorf("failed to transition settlement %s from %s to %s: %w", id, from, to, err)
	}

	return nil
}
