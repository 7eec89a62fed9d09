package ddbstore

import (
	"bytes"
	"math"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeNumber_PreservesOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.Float64().Draw(rt, "a")
		b := rapid.Float64().Draw(rt, "b")
		if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
			rt.Skip("not a DynamoDB number")
		}

		ea, err := encodeNumber(strconv.FormatFloat(a, 'g', -1, 64))
		if err != nil {
			rt.Fatal(err)
		}
		eb, err := encodeNumber(strconv.FormatFloat(b, 'g', -1, 64))
		if err != nil {
			rt.Fatal(err)
		}

		want := 0
		switch {
		case a < b:
			want = -1
		case a > b:
			want = 1
		}
		if a == 0 && b == 0 {
			// -0 and 0 are the same DynamoDB number but encode differently.
			return
		}
		if got := bytes.Compare(ea, eb); got != want {
			rt.Fatalf("compare(%v, %v) = %d, want %d", a, b, got, want)
		}
	})
}

func TestEscapeBytes_NoSeparator(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := rapid.SliceOf(rapid.Byte()).Draw(rt, "b")
		if bytes.IndexByte(escapeBytes(b), keySeparator) >= 0 {
			rt.Fatalf("escaped %x contains the separator", b)
		}
	})
}

func TestSerializeItem_RoundTrip(t *testing.T) {
	item := map[string]types.AttributeValue{
		"s":    &types.AttributeValueMemberS{Value: "x"},
		"n":    &types.AttributeValueMemberN{Value: "1.5"},
		"b":    &types.AttributeValueMemberB{Value: []byte{0, 1, 2}},
		"bool": &types.AttributeValueMemberBOOL{Value: true},
		"null": &types.AttributeValueMemberNULL{Value: true},
		"ss":   &types.AttributeValueMemberSS{Value: []string{"a", "b"}},
		"ns":   &types.AttributeValueMemberNS{Value: []string{"1", "2"}},
		"bs":   &types.AttributeValueMemberBS{Value: [][]byte{{1}, {2}}},
		"m": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"createdAt": &types.AttributeValueMemberN{Value: "1709294400000"},
		}},
		"l": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "first"},
		}},
	}

	data, err := SerializeItem(item)
	require.NoError(t, err)
	back, err := DeserializeItem(data)
	require.NoError(t, err)
	assert.Equal(t, item, back)
}
