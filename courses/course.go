package courses

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/acksell/courses/dynamodb/table"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const TableName = "COURSES"

// Table is the fixed schema of the COURSES table: hash key courseId (S),
// provisioned with one read and one write unit.
var Table = table.TableDefinition{
	Name: TableName,
	KeyDefinitions: table.PrimaryKeyDefinition{
		PartitionKey: table.KeyDef{Name: "courseId", Kind: table.KeyKindS},
	},
	Throughput: table.Throughput{ReadCapacityUnits: 1, WriteCapacityUnits: 1},
}

// summaryAttributes are the attributes returned by batch reads. detail is left out.
var summaryAttributes = []string{"courseId", "title", "level", "snippet"}

type Course struct {
	CourseID string  `dynamodbav:"courseId" json:"courseId"`
	Title    string  `dynamodbav:"title,omitempty" json:"title,omitempty"`
	Level    string  `dynamodbav:"level,omitempty" json:"level,omitempty"`
	Snippet  string  `dynamodbav:"snippet,omitempty" json:"snippet,omitempty"`
	Detail   *Detail `dynamodbav:"detail,omitempty" json:"detail,omitempty"`
}

func (c *Course) empty() bool {
	return c == nil || (c.CourseID == "" && c.Title == "" && c.Level == "" && c.Snippet == "" && c.Detail == nil)
}

func (c *Course) clone() *Course {
	out := *c
	if c.Detail != nil {
		d := *c.Detail
		if c.Detail.Extra != nil {
			d.Extra = make(map[string]any, len(c.Detail.Extra))
			for k, v := range c.Detail.Extra {
				d.Extra[k] = v
			}
		}
		out.Detail = &d
	}
	return &out
}

// Detail is stored as a map. CreatedBy and CreatedAt are the known keys;
// anything else the caller sent is kept in Extra and written alongside them.
type Detail struct {
	CreatedBy string
	// CreatedAt is milliseconds since the Unix epoch.
	CreatedAt int64
	Extra     map[string]any
}

const (
	createdByKey = "createdBy"
	createdAtKey = "createdAt"
)

func (d Detail) fields() map[string]any {
	m := make(map[string]any, len(d.Extra)+2)
	for k, v := range d.Extra {
		m[k] = v
	}
	if d.CreatedBy != "" {
		m[createdByKey] = d.CreatedBy
	}
	if d.CreatedAt != 0 {
		m[createdAtKey] = d.CreatedAt
	}
	return m
}

func (d Detail) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(d.fields())
	if err != nil {
		return nil, fmt.Errorf("marshal detail: %w", err)
	}
	return &types.AttributeValueMemberM{Value: av}, nil
}

func (d *Detail) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		return fmt.Errorf("detail: expected map attribute, got %T", av)
	}
	*d = Detail{}
	for k, v := range m.Value {
		switch k {
		case createdByKey:
			if err := attributevalue.Unmarshal(v, &d.CreatedBy); err != nil {
				return fmt.Errorf("detail.%s: %w", k, err)
			}
		case createdAtKey:
			n, ok := v.(*types.AttributeValueMemberN)
			if !ok {
				return fmt.Errorf("detail.%s: expected number, got %T", k, v)
			}
			ms, err := parseMillis(n.Value)
			if err != nil {
				return fmt.Errorf("detail.%s: %w", k, err)
			}
			d.CreatedAt = ms
		default:
			var x any
			if err := attributevalue.Unmarshal(v, &x); err != nil {
				return fmt.Errorf("detail.%s: %w", k, err)
			}
			if d.Extra == nil {
				d.Extra = make(map[string]any)
			}
			d.Extra[k] = x
		}
	}
	return nil
}

func (d Detail) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.fields())
}

func (d *Detail) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = Detail{}
	for k, v := range raw {
		switch k {
		case createdByKey:
			if err := json.Unmarshal(v, &d.CreatedBy); err != nil {
				return fmt.Errorf("detail.%s: %w", k, err)
			}
		case createdAtKey:
			var n json.Number
			if err := json.Unmarshal(v, &n); err != nil {
				return fmt.Errorf("detail.%s: %w", k, err)
			}
			ms, err := parseMillis(n.String())
			if err != nil {
				return fmt.Errorf("detail.%s: %w", k, err)
			}
			d.CreatedAt = ms
		default:
			var x any
			if err := json.Unmarshal(v, &x); err != nil {
				return fmt.Errorf("detail.%s: %w", k, err)
			}
			if d.Extra == nil {
				d.Extra = make(map[string]any)
			}
			d.Extra[k] = x
		}
	}
	return nil
}

func parseMillis(s string) (int64, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return int64(f), nil
}
