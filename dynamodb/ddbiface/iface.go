// Package ddbiface provides the subset of DynamoDB client operations the
// course store needs. It is satisfied by both the AWS SDK v2 DynamoDB client
// and by ddbstore.Store, so code can run against real DynamoDB, DynamoDB
// Local, or the BadgerDB-backed store.
package ddbiface

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// TableAdmin covers table lifecycle calls.
type TableAdmin interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error)
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
}

// ItemIO covers the item reads and writes.
type ItemIO interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Client mirrors the method signatures of the AWS SDK v2 *dynamodb.Client.
type Client interface {
	TableAdmin
	ItemIO
}

var _ Client = (*dynamodb.Client)(nil)
