package ddbstore

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UnresolvedAttributeNameError is returned when an expression attribute name
// cannot be resolved from the provided names map.
type UnresolvedAttributeNameError struct {
	Alias string
}

func (e *UnresolvedAttributeNameError) Error() string {
	return fmt.Sprintf("unresolved expression attribute name %q", e.Alias)
}

// project applies a projection to item. Paths are top-level attributes or
// dotted paths into maps; list indexes are not supported. The legacy
// AttributesToGet parameter is accepted as an alternative.
func project(expr *string, names map[string]string, attributesToGet []string, item map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	if item == nil {
		return nil, nil
	}
	var paths [][]string
	switch {
	case expr != nil && *expr != "" && len(attributesToGet) > 0:
		return nil, fmt.Errorf("cannot use both ProjectionExpression and AttributesToGet")
	case expr != nil && *expr != "":
		parsed, err := parseProjection(*expr, names)
		if err != nil {
			return nil, err
		}
		paths = parsed
	case len(attributesToGet) > 0:
		for _, attr := range attributesToGet {
			paths = append(paths, []string{attr})
		}
	default:
		return item, nil
	}

	out := make(map[string]types.AttributeValue)
	for _, path := range paths {
		copyPath(out, item, path)
	}
	return out, nil
}

func parseProjection(expr string, names map[string]string) ([][]string, error) {
	var paths [][]string
	for _, raw := range strings.Split(expr, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, fmt.Errorf("invalid projection expression %q: empty path", expr)
		}
		if strings.ContainsAny(raw, "[] ") {
			return nil, fmt.Errorf("unsupported projection path %q", raw)
		}
		segments := strings.Split(raw, ".")
		for i, seg := range segments {
			if !strings.HasPrefix(seg, "#") {
				continue
			}
			name, ok := names[seg]
			if !ok {
				return nil, &UnresolvedAttributeNameError{Alias: seg}
			}
			segments[i] = name
		}
		paths = append(paths, segments)
	}
	return paths, nil
}

// copyPath copies the value at path from src into dst, creating intermediate maps.
func copyPath(dst, src map[string]types.AttributeValue, path []string) {
	v, ok := src[path[0]]
	if !ok {
		return
	}
	if len(path) == 1 {
		dst[path[0]] = v
		return
	}
	srcMap, ok := v.(*types.AttributeValueMemberM)
	if !ok {
		return
	}
	dstMap, ok := dst[path[0]].(*types.AttributeValueMemberM)
	if !ok {
		dstMap = &types.AttributeValueMemberM{Value: make(map[string]types.AttributeValue)}
	}
	copyPath(dstMap.Value, srcMap.Value, path[1:])
	if len(dstMap.Value) > 0 {
		dst[path[0]] = dstMap
	}
}
