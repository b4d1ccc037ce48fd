package query

import (
	"strings"
	"time"
)

// Record exposes the field values of one row
type Record interface {
	Value(f Field) (any, bool)
}

// RecordFunc adapts a function to Record
type RecordFunc func(f Field) (any, bool)

func (fn RecordFunc) Value(f Field) (any, bool) { return fn(f) }

// Match evaluates p against r. Conditions on missing or nil values never match,
// mirroring SQL NULL comparison.
func Match(p Predicate, r Record) bool {
	switch p := p.(type) {
	case nil:
		return true
	case And:
		for _, child := range p {
			if !Match(child, r) {
				return false
			}
		}
		return true
	case Or:
		if len(p) == 0 {
			return true
		}
		for _, child := range p {
			if Match(child, r) {
				return true
			}
		}
		return false
	case Condition:
		return p.matches(r)
	}
	return false
}

func (c Condition) matches(r Record) bool {
	v, ok := r.Value(c.Field)
	if !ok || v == nil {
		return false
	}

	switch c.Op {
	case OpEquals:
		if a, ok := toFloat(v); ok {
			b, ok := toFloat(c.Value)
			return ok && a == b
		}
		a, okA := toString(v)
		b, okB := toString(c.Value)
		return okA && okB && a == b
	case OpContains:
		a, okA := toString(v)
		b, okB := toString(c.Value)
		return okA && okB && strings.Contains(strings.ToLower(a), strings.ToLower(b))
	case OpGte, OpLte:
		a, okA := toFloat(v)
		b, okB := toFloat(c.Value)
		if !okA || !okB {
			return false
		}
		if c.Op == OpGte {
			return a >= b
		}
		return a <= b
	}
	return false
}

// Compare orders two field values: numbers numerically, strings
// lexically, times chronologically. nil sorts before everything else.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	if x, ok := a.(time.Time); ok {
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	x, _ := toString(a)
	y, _ := toString(b)
	return strings.Compare(x, y)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	case *int:
		if n == nil {
			return 0, false
		}
		return float64(*n), true
	}
	return 0, false
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case *string:
		if s == nil {
			return "", false
		}
		return *s, true
	}
	return "", false
}
