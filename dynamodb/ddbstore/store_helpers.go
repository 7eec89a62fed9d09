package ddbstore

import "golang.org/x/exp/constraints"

func ptrStr(s string) *string {
	return &s
}

// clampDefault returns def when v is not positive, and max when v exceeds it.
func clampDefault[T constraints.Integer](v, def, max T) T {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
