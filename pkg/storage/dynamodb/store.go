// Package dynamodb implements the settlement record store on AWS DynamoDB.
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/marketplace-settlements/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store. Declared
// here so tests can substitute a mock.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store implements the storage.RecordStore interface using AWS DynamoDB.
type Store struct {
	Client               DynamoDBAPI
	SettlementsTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, settlementsTable string) *Store {
	return &Store{
		Client:               client,
		SettlementsTableName: settlementsTable,
	}
}

// Make sure we conform to the interface.
var _ storage.RecordStore = (*Store)(nil)
