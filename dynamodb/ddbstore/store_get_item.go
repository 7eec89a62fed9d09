package ddbstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// GetItem retrieves a single item by its primary key.
// Like DynamoDB, a missing item yields an empty output and no error.
func (s *Store) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required")
	}
	if params.Key == nil {
		return nil, fmt.Errorf("key is required")
	}

	def, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}

	pk, err := def.ExtractPrimaryKey(params.Key)
	if err != nil {
		return nil, fmt.Errorf("extract primary key: %w", err)
	}
	key, err := encodeItemKey(def.Name, pk)
	if err != nil {
		return nil, fmt.Errorf("encode key: %w", err)
	}

	var item map[string]types.AttributeValue
	err = s.db.View(func(txn *badger.Txn) error {
		item, err = getItem(txn, key)
		return err
	})
	if err != nil {
		return nil, err
	}

	item, err = project(params.ProjectionExpression, params.ExpressionAttributeNames, params.AttributesToGet, item)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

// getItem returns nil without error when the key does not exist.
func getItem(txn *badger.Txn, key []byte) (map[string]types.AttributeValue, error) {
	badgerItem, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var item map[string]types.AttributeValue
	err = badgerItem.Value(func(val []byte) error {
		item, err = DeserializeItem(val)
		return err
	})
	return item, err
}
