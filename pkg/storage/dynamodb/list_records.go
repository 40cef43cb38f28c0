package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/marketplace-settlements/pkg/models"
)

// scanRecords runs a filtered Scan and unmarshals the results sorted by request
// time. The settlements table stays small enough for Scan because terminal
// records age out of every filter used here.
func (s *Store) scanRecords(ctx context.Context, filterExpr string, exprNames map[string]string, exprValues map[string]types.AttributeValue) ([]models.SettlementRecord, error) {
	input := &dynamodb.ScanInput{
		TableName:                 aws.String(s.SettlementsTableName),
		FilterExpression:          aws.String(filterExpr),
		ExpressionAttributeValues: exprValues,
	}
	if len(exprNames) > 0 {
		input.ExpressionAttributeNames = exprNames
	}

	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan settlements table: %w", err)
	}

	var records []models.SettlementRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settlement records: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RequestedAt.Before(records[j].RequestedAt)
	})
	return records, nil
}

// ListActiveRecords retrieves all PENDING and PROCESSING records for recovery.
func (s *Store) ListActiveRecords(ctx context.Context) ([]models.SettlementRecord, error) {
	return s.scanRecords(ctx,
		"#status = :pending OR #status = :processing",
		map[string]string{"#status": "status"},
		map[string]types.AttributeValue{
			":pending":    &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":processing": &types.AttributeValueMemberS{Value: string(models.PROCESSING)},
		},
	)
}

// ListRecordsSince retrieves all records requested at or after the given time.
func (s *Store) ListRecordsSince(ctx context.Context, since time.Time) ([]models.SettlementRecord, error) {
	sinceAV, err := attributevalue.Marshal(since)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal since timestamp: %w", err)
	}
	return s.scanRecords(ctx,
		"requested_at >= :since",
		nil,
		map[string]types.AttributeValue{":since": sinceAV},
	)
}

// ListRecordsByPayee retrieves all records for a specific payee.
func (s *Store) ListRecordsByPayee(ctx context.Context, payeeID string) ([]models.SettlementRecord, error) {
	return s.scanRecords(ctx,
		"payee_id = :payee",
		nil,
		map[string]types.AttributeValue{":payee": &types.AttributeValueMemberS{Value: payeeID}},
	)
}

// ListStuckRecords retrieves records that have sat in PENDING longer than maxAge.
func (s *Store) ListStuckRecords(ctx context.Context, maxAge time.Duration) ([]models.SettlementRecord, error) {
	cutoff, err := attributevalue.Marshal(time.Now().Add(-maxAge))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff timestamp: %w", err)
	}
	return s.scanRecords(ctx,
		"#status = :pending AND requested_at <= :cutoff",
		map[string]string{"#status": "status"},
		map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":cutoff":  cutoff,
		},
	)
}
