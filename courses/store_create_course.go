package courses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type CreateCourseInput struct {
	// UID identifies the user creating the course.
	UID    string
	Course *Course
}

// CreateCourse writes a course with PutItem. An existing course with the same
// id is fully replaced.
//
// If the course has no detail, detail becomes {createdBy: UID}. detail.createdAt
// is always set to the current time in epoch milliseconds. The caller's Course
// is not modified; the stored record is returned.
func (s *Store) CreateCourse(ctx context.Context, in CreateCourseInput) (*Course, error) {
	switch {
	case in.UID == "":
		return nil, validationError("require user id")
	case in.Course.empty():
		return nil, validationError("empty data")
	case in.Course.CourseID == "":
		return nil, validationError("missing courseId")
	}

	c := in.Course.clone()
	if c.Detail == nil {
		c.Detail = &Detail{CreatedBy: in.UID}
	}
	c.Detail.CreatedAt = s.now().UnixMilli()

	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return nil, fmt.Errorf("marshal course: %w", err)
	}

	if _, err := s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(TableName),
		Item:      item,
	}); err != nil {
		return nil, &StoreError{Op: "PutItem", Err: err}
	}

	s.log.Debug().Str("courseId", c.CourseID).Str("uid", in.UID).Msg("course stored")
	return c, nil
}

// RemoveCourse is declared for completeness but has no agreed semantics
// (hard delete, soft delete or tombstone). It performs no remote call and
// always returns ErrNotImplemented.
func (s *Store) RemoveCourse(ctx context.Context, courseID string) error {
	return ErrNotImplemented
}
