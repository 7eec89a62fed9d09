package courses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// GetCourse looks up a course by id. A missing course is not an error:
// it returns (nil, nil).
func (s *Store) GetCourse(ctx context.Context, courseID string) (*Course, error) {
	if courseID == "" {
		return nil, validationError("must specify courseId")
	}

	key, err := Table.KeyDefinitions.HashKey(courseID).DDB()
	if err != nil {
		return nil, fmt.Errorf("build key: %w", err)
	}

	res, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableName),
		Key:       key,
	})
	if err != nil {
		return nil, &StoreError{Op: "GetItem", Msg: "unable to read item", Err: err}
	}
	if res == nil || res.Item == nil {
		return nil, nil
	}

	var c Course
	if err := attributevalue.UnmarshalMap(res.Item, &c); err != nil {
		return nil, &StoreError{Op: "GetItem", Msg: "unable to read item", Err: err}
	}
	return &c, nil
}
