package agate

import (
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// lessValue orders two native cell values of the same underlying kind.
// It is used by Table.OrderBy; callers are responsible for routing
// nulls to the end before calling this (see isSortNull in table.go).
func lessValue(a, b any) bool {
	if multiA, ok := a.([]any); ok {
		multiB, _ := b.([]any)
		for i := range multiA {
			if i >= len(multiB) {
				return false
			}
			av, bv := multiA[i], multiB[i]
			if isSortNull(av) != isSortNull(bv) {
				return !isSortNull(av)
			}
			if isSortNull(av) {
				continue
			}
			if lessValue(av, bv) {
				return true
			}
			if lessValue(bv, av) {
				return false
			}
		}
		return false
	}

	switch av := a.(type) {
	case *apd.Decimal:
		bv, ok := b.(*apd.Decimal)
		if !ok {
			return false
		}
		return decCmp(av, bv) < 0
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return false
		}
		return !av && bv
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return false
		}
		return av.Before(bv)
	case Duration:
		bv, ok := b.(Duration)
		if !ok {
			return false
		}
		return av.Duration < bv.Duration
	case string:
		bv, ok := b.(string)
		if !ok {
			return false
		}
		return av < bv
	default:
		return false
	}
}

// valueText renders any native cell value (including Null and multi-
// column sort-key tuples) as a stable string, used as a map key for
// Table.Distinct and similar set-membership checks.
func valueText(v any) string {
	if IsNull(v) {
		return "\x00null\x00"
	}
	switch vv := v.(type) {
	case []any:
		out := ""
		for i, e := range vv {
			if i > 0 {
				out += "\x1f"
			}
			out += valueText(e)
		}
		return out
	case *apd.Decimal:
		return "n:" + vv.Text('f')
	case bool:
		if vv {
			return "b:true"
		}
		return "b:false"
	case time.Time:
		return "t:" + vv.UTC().Format(time.RFC3339Nano)
	case Duration:
		return "d:" + vv.Duration.String()
	case string:
		return "s:" + vv
	default:
		return fmt.Sprintf("?:%v", vv)
	}
}
