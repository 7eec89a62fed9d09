package table

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableDefinition describes the key schema and provisioning of a single table.
type TableDefinition struct {
	Name           string
	KeyDefinitions PrimaryKeyDefinition
	Throughput     Throughput
}

// Throughput is the provisioned read/write capacity of a table.
// The zero value means on-demand billing.
type Throughput struct {
	ReadCapacityUnits  int64
	WriteCapacityUnits int64
}

func (t Throughput) provisioned() bool {
	return t.ReadCapacityUnits > 0 || t.WriteCapacityUnits > 0
}

func (t TableDefinition) ExtractPrimaryKey(doc map[string]types.AttributeValue) (PrimaryKey, error) {
	return t.KeyDefinitions.ExtractPrimaryKey(doc)
}

func (k PrimaryKeyDefinition) ExtractPrimaryKey(doc map[string]types.AttributeValue) (PrimaryKey, error) {
	part, ok := doc[k.PartitionKey.Name]
	if !ok {
		return PrimaryKey{}, fmt.Errorf("partition key %q not found", k.PartitionKey.Name)
	}
	if err := attributeMatchesDefinition(k.PartitionKey.Kind, part); err != nil {
		return PrimaryKey{}, fmt.Errorf("document key %q kind does not match definition: %w", k.PartitionKey.Name, err)
	}
	pk := PrimaryKey{
		Definition: k,
		Values: PrimaryKeyValues{
			PartitionKey: keyValueFromAV(part),
		},
	}
	if k.SortKey.Name == "" {
		return pk, nil
	}
	sort, ok := doc[k.SortKey.Name]
	if !ok {
		return PrimaryKey{}, fmt.Errorf("sort key %q not found on document", k.SortKey.Name)
	}
	if err := attributeMatchesDefinition(k.SortKey.Kind, sort); err != nil {
		return PrimaryKey{}, fmt.Errorf("sort key %q kind does not match definition: %w", k.SortKey.Name, err)
	}
	pk.Values.SortKey = keyValueFromAV(sort)
	return pk, nil
}

// CreateTableInput builds the CreateTable request for this definition.
func (t TableDefinition) CreateTableInput() *dynamodb.CreateTableInput {
	in := &dynamodb.CreateTableInput{
		TableName: aws.String(t.Name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(t.KeyDefinitions.PartitionKey.Name), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String(t.KeyDefinitions.PartitionKey.Name),
				AttributeType: types.ScalarAttributeType(t.KeyDefinitions.PartitionKey.Kind),
			},
		},
	}
	if sk := t.KeyDefinitions.SortKey; sk.Name != "" {
		in.KeySchema = append(in.KeySchema, types.KeySchemaElement{
			AttributeName: aws.String(sk.Name),
			KeyType:       types.KeyTypeRange,
		})
		in.AttributeDefinitions = append(in.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(sk.Name),
			AttributeType: types.ScalarAttributeType(sk.Kind),
		})
	}
	if t.Throughput.provisioned() {
		in.BillingMode = types.BillingModeProvisioned
		in.ProvisionedThroughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(t.Throughput.ReadCapacityUnits),
			WriteCapacityUnits: aws.Int64(t.Throughput.WriteCapacityUnits),
		}
	} else {
		in.BillingMode = types.BillingModePayPerRequest
	}
	return in
}

// FromCreateTableInput is the inverse of CreateTableInput.
// Only the hash and range keys of the request are considered.
func FromCreateTableInput(in *dynamodb.CreateTableInput) (TableDefinition, error) {
	if in == nil || in.TableName == nil || *in.TableName == "" {
		return TableDefinition{}, fmt.Errorf("table name is required")
	}
	kinds := make(map[string]KeyKind, len(in.AttributeDefinitions))
	for _, ad := range in.AttributeDefinitions {
		kinds[aws.ToString(ad.AttributeName)] = KeyKind(ad.AttributeType)
	}

	def := TableDefinition{Name: *in.TableName}
	for _, ks := range in.KeySchema {
		name := aws.ToString(ks.AttributeName)
		kind, ok := kinds[name]
		if !ok {
			return TableDefinition{}, fmt.Errorf("key attribute %q has no attribute definition", name)
		}
		if err := kind.validate(); err != nil {
			return TableDefinition{}, fmt.Errorf("key attribute %q: %w", name, err)
		}
		switch ks.KeyType {
		case types.KeyTypeHash:
			def.KeyDefinitions.PartitionKey = KeyDef{Name: name, Kind: kind}
		case types.KeyTypeRange:
			def.KeyDefinitions.SortKey = KeyDef{Name: name, Kind: kind}
		default:
			return TableDefinition{}, fmt.Errorf("unknown key type %q for %q", ks.KeyType, name)
		}
	}
	if def.KeyDefinitions.PartitionKey.Name == "" {
		return TableDefinition{}, fmt.Errorf("key schema must contain a HASH key")
	}
	if pt := in.ProvisionedThroughput; pt != nil {
		def.Throughput = Throughput{
			ReadCapacityUnits:  aws.ToInt64(pt.ReadCapacityUnits),
			WriteCapacityUnits: aws.ToInt64(pt.WriteCapacityUnits),
		}
	}
	return def, nil
}

func keyValueFromAV(av types.AttributeValue) any {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	case *types.AttributeValueMemberB:
		return v.Value
	default:
		panic(fmt.Sprintf("unsupported attribute value %T for dynamodb keys", v))
	}
}
