package ddbstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

const maxBatchGetKeys = 100

// BatchGetItem retrieves multiple items by their primary keys.
// Missing keys are skipped. All keys are always processed, so
// UnprocessedKeys is never populated.
func (s *Store) BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required")
	}
	if len(params.RequestItems) == 0 {
		return nil, fmt.Errorf("request items is required")
	}

	total := 0
	for _, ka := range params.RequestItems {
		total += len(ka.Keys)
	}
	if total > maxBatchGetKeys {
		return nil, fmt.Errorf("too many items requested for the BatchGetItem call: %d > %d", total, maxBatchGetKeys)
	}

	response := &dynamodb.BatchGetItemOutput{
		Responses: make(map[string][]map[string]types.AttributeValue),
	}

	err := s.db.View(func(txn *badger.Txn) error {
		for tableName, keysAndAttrs := range params.RequestItems {
			def, err := s.getTable(&tableName)
			if err != nil {
				return err
			}

			seen := make(map[string]struct{}, len(keysAndAttrs.Keys))
			for _, keyAttrs := range keysAndAttrs.Keys {
				pk, err := def.ExtractPrimaryKey(keyAttrs)
				if err != nil {
					return err
				}
				key, err := encodeItemKey(def.Name, pk)
				if err != nil {
					return err
				}
				if _, dup := seen[string(key)]; dup {
					return fmt.Errorf("provided list of item keys contains duplicates")
				}
				seen[string(key)] = struct{}{}

				item, err := getItem(txn, key)
				if err != nil {
					return err
				}
				if item == nil {
					continue
				}

				item, err = project(keysAndAttrs.ProjectionExpression, keysAndAttrs.ExpressionAttributeNames, keysAndAttrs.AttributesToGet, item)
				if err != nil {
					return err
				}
				response.Responses[tableName] = append(response.Responses[tableName], item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
