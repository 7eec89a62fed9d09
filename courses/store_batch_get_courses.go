package courses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// BatchGetCourses fetches the summary attributes (courseId, title, level,
// snippet) of the given courses in one BatchGetItem call, with eventually
// consistent reads.
//
// The ids are passed through as given. Unknown ids are simply absent from the
// result, and the result order is unspecified. Keys DynamoDB leaves
// unprocessed are not retried.
func (s *Store) BatchGetCourses(ctx context.Context, courseIDs []string) ([]Course, error) {
	keys := make([]map[string]types.AttributeValue, 0, len(courseIDs))
	for _, id := range courseIDs {
		key, err := Table.KeyDefinitions.HashKey(id).DDB()
		if err != nil {
			return nil, fmt.Errorf("build key: %w", err)
		}
		keys = append(keys, key)
	}

	proj, err := buildProjectionExpression(summaryAttributes)
	if err != nil {
		return nil, fmt.Errorf("build projection: %w", err)
	}

	res, err := s.ddb.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{
			TableName: {
				Keys:                     keys,
				ProjectionExpression:     proj.Projection(),
				ExpressionAttributeNames: proj.Names(),
				ConsistentRead:           aws.Bool(false),
			},
		},
		ReturnConsumedCapacity: types.ReturnConsumedCapacityNone,
	})
	if err != nil {
		return nil, &StoreError{Op: "BatchGetItem", Err: err}
	}

	if unprocessed := len(res.UnprocessedKeys[TableName].Keys); unprocessed > 0 {
		s.log.Debug().Int("unprocessed", unprocessed).Msg("batch get returned unprocessed keys")
	}

	items := res.Responses[TableName]
	out := make([]Course, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &out); err != nil {
		return nil, &StoreError{Op: "BatchGetItem", Err: err}
	}
	return out, nil
}

func buildProjectionExpression(attributes []string) (expression.Expression, error) {
	var proj expression.ProjectionBuilder
	for i, attr := range attributes {
		if i == 0 {
			proj = expression.NamesList(expression.Name(attr))
		} else {
			proj = proj.AddNames(expression.Name(attr))
		}
	}
	return expression.NewBuilder().WithProjection(proj).Build()
}
