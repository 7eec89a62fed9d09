package ddbstore

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	item := map[string]types.AttributeValue{
		"title": avS("Intro"),
		"level": avS("beginner"),
		"info": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"rating": &types.AttributeValueMemberN{Value: "5"},
			"plot":   avS("..."),
		}},
	}

	tests := []struct {
		name    string
		expr    string
		names   map[string]string
		attrs   []string
		want    map[string]types.AttributeValue
		wantErr bool
	}{
		{
			name: "no projection returns item",
			want: item,
		},
		{
			name: "top level",
			expr: "title, level",
			want: map[string]types.AttributeValue{"title": avS("Intro"), "level": avS("beginner")},
		},
		{
			name:  "expression attribute names",
			expr:  "#t",
			names: map[string]string{"#t": "title"},
			want:  map[string]types.AttributeValue{"title": avS("Intro")},
		},
		{
			name: "nested path",
			expr: "info.rating",
			want: map[string]types.AttributeValue{"info": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"rating": &types.AttributeValueMemberN{Value: "5"},
			}}},
		},
		{
			name: "missing attribute is omitted",
			expr: "title, nope",
			want: map[string]types.AttributeValue{"title": avS("Intro")},
		},
		{
			name:  "attributes to get",
			attrs: []string{"level"},
			want:  map[string]types.AttributeValue{"level": avS("beginner")},
		},
		{
			name:    "unresolved name",
			expr:    "#x",
			wantErr: true,
		},
		{
			name:    "list index unsupported",
			expr:    "tags[0]",
			wantErr: true,
		},
		{
			name:    "both forms",
			expr:    "title",
			attrs:   []string{"title"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var expr *string
			if tt.expr != "" {
				expr = &tt.expr
			}
			got, err := project(expr, tt.names, tt.attrs, item)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unresolved name error type", func(t *testing.T) {
		_, err := project(ptrStr("#nope"), nil, nil, item)
		var unresolved *UnresolvedAttributeNameError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "#nope", unresolved.Alias)
	})
}
