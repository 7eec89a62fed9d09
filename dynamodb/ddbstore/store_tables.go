package ddbstore

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/acksell/courses/dynamodb/table"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,255}$`)

const defaultListTablesLimit = 100

// CreateTable registers a new table. Only the key schema and provisioned
// throughput are interpreted; the table is ACTIVE immediately.
func (s *Store) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required")
	}
	def, err := table.FromCreateTableInput(params)
	if err != nil {
		return nil, fmt.Errorf("invalid create table input: %w", err)
	}
	if !tableNamePattern.MatchString(def.Name) {
		return nil, fmt.Errorf("invalid table name %q", def.Name)
	}
	if err := s.createTable(def); err != nil {
		return nil, err
	}
	return &dynamodb.CreateTableOutput{
		TableDescription: describeTable(def, types.TableStatusActive),
	}, nil
}

// DeleteTable removes a table and every item stored in it.
func (s *Store) DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required")
	}
	def, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(metaTableKey(def.Name))
	})
	if err != nil {
		return nil, fmt.Errorf("delete table definition: %w", err)
	}
	delete(s.tables, def.Name)
	if err := s.db.DropPrefix(tablePrefix(def.Name)); err != nil {
		return nil, fmt.Errorf("drop table items: %w", err)
	}
	return &dynamodb.DeleteTableOutput{
		TableDescription: describeTable(def, types.TableStatusDeleting),
	}, nil
}

// ListTables returns table names in ascending order, paginated like DynamoDB.
func (s *Store) ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	if params == nil {
		params = &dynamodb.ListTablesInput{}
	}
	limit := int(clampDefault(aws.ToInt32(params.Limit), defaultListTablesLimit, defaultListTablesLimit))

	s.mu.RLock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	s.mu.RUnlock()
	slices.Sort(names)

	if start := aws.ToString(params.ExclusiveStartTableName); start != "" {
		i, found := slices.BinarySearch(names, start)
		if found {
			i++
		}
		names = names[i:]
	}

	out := &dynamodb.ListTablesOutput{TableNames: names}
	if len(names) > limit {
		out.TableNames = names[:limit]
		out.LastEvaluatedTableName = aws.String(names[limit-1])
	}
	return out, nil
}

func describeTable(def table.TableDefinition, status types.TableStatus) *types.TableDescription {
	in := def.CreateTableInput()
	desc := &types.TableDescription{
		TableName:            in.TableName,
		KeySchema:            in.KeySchema,
		AttributeDefinitions: in.AttributeDefinitions,
		TableStatus:          status,
		CreationDateTime:     aws.Time(time.Now()),
	}
	if in.ProvisionedThroughput != nil {
		desc.ProvisionedThroughput = &types.ProvisionedThroughputDescription{
			ReadCapacityUnits:  in.ProvisionedThroughput.ReadCapacityUnits,
			WriteCapacityUnits: in.ProvisionedThroughput.WriteCapacityUnits,
		}
	}
	return desc
}
