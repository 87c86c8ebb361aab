package types

import "fmt"

// StatementKind enumerates the POD2 statement forms.
type StatementKind uint8

const (
	StatementNone StatementKind = iota
	StatementValueOf
	StatementEqual
	StatementNotEqual
	StatementGt
	StatementLt
	StatementContains
	StatementNotContains
	StatementSumOf
	StatementProductOf
	StatementMaxOf
)

var kindNames = map[StatementKind]string{
	StatementNone:        "none",
	StatementValueOf:     "value_of",
	StatementEqual:       "equal",
	StatementNotEqual:    "not_equal",
	StatementGt:          "gt",
	StatementLt:          "lt",
	StatementContains:    "contains",
	StatementNotContains: "not_contains",
	StatementSumOf:       "sum_of",
	StatementProductOf:   "product_of",
	StatementMaxOf:       "max_of",
}

func (k StatementKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseStatementKind maps a kind name back to its StatementKind.
func ParseStatementKind(s string) (StatementKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return StatementNone, fmt.Errorf("unknown statement kind %q", s)
}

// Arity returns the number of anchored keys the kind takes.
func (k StatementKind) Arity() int {
	switch k {
	case StatementNone:
		return 0
	case StatementValueOf:
		return 1
	case StatementSumOf, StatementProductOf, StatementMaxOf:
		return 3
	default:
		return 2
	}
}

// Statement is a POD2 statement: a relation over anchored keys, plus a
// value for ValueOf.
type Statement struct {
	Kind  StatementKind
	Keys  []AnchoredKey
	Value Value
}

// ValueOf asserts that key holds v.
func ValueOf(key AnchoredKey, v Value) Statement {
	return Statement{Kind: StatementValueOf, Keys: []AnchoredKey{key}, Value: v}
}

// Equal asserts the values at a and b are equal.
func Equal(a, b AnchoredKey) Statement {
	return Statement{Kind: StatementEqual, Keys: []AnchoredKey{a, b}}
}

// NotEqual asserts the values at a and b differ.
func NotEqual(a, b AnchoredKey) Statement {
	return Statement{Kind: StatementNotEqual, Keys: []AnchoredKey{a, b}}
}

// Gt asserts the value at a exceeds the value at b.
func Gt(a, b AnchoredKey) Statement {
	return Statement{Kind: StatementGt, Keys: []AnchoredKey{a, b}}
}

// Lt asserts the value at a is below the value at b.
func Lt(a, b AnchoredKey) Statement {
	return Statement{Kind: StatementLt, Keys: []AnchoredKey{a, b}}
}

// Contains asserts the container at a holds the value at b.
func Contains(a, b AnchoredKey) Statement {
	return Statement{Kind: StatementContains, Keys: []AnchoredKey{a, b}}
}

// NotContains asserts the container at a does not hold the value at b.
func NotContains(a, b AnchoredKey) Statement {
	return Statement{Kind: StatementNotContains, Keys: []AnchoredKey{a, b}}
}

// SumOf asserts value(sum) = value(a) + value(b).
func SumOf(sum, a, b AnchoredKey) Statement {
	return Statement{Kind: StatementSumOf, Keys: []AnchoredKey{sum, a, b}}
}

// ProductOf asserts value(product) = value(a) * value(b).
func ProductOf(product, a, b AnchoredKey) Statement {
	return Statement{Kind: StatementProductOf, Keys: []AnchoredKey{product, a, b}}
}

// MaxOf asserts value(max) = max(value(a), value(b)).
func MaxOf(max, a, b AnchoredKey) Statement {
	return Statement{Kind: StatementMaxOf, Keys: []AnchoredKey{max, a, b}}
}

// Equals reports structural equality of two statements.
func (s Statement) Equals(o Statement) bool {
	if s.Kind != o.Kind || len(s.Keys) != len(o.Keys) {
		return false
	}
	for i := range s.Keys {
		if s.Keys[i] != o.Keys[i] {
			return false
		}
	}
	switch {
	case s.Value == nil && o.Value == nil:
		return true
	case s.Value == nil || o.Value == nil:
		return false
	default:
		return s.Value.Equal(o.Value)
	}
}

func (s Statement) String() string {
	switch s.Kind {
	case StatementNone:
		return "None"
	case StatementValueOf:
		return fmt.Sprintf("%s = %s", s.Keys[0], s.Value)
	case StatementEqual:
		return fmt.Sprintf("%s = %s", s.Keys[0], s.Keys[1])
	case StatementNotEqual:
		return fmt.Sprintf("%s ≠ %s", s.Keys[0], s.Keys[1])
	case StatementGt:
		return fmt.Sprintf("%s > %s", s.Keys[0], s.Keys[1])
	case StatementLt:
		return fmt.Sprintf("%s < %s", s.Keys[0], s.Keys[1])
	case StatementContains:
		return fmt.Sprintf("%s contains %s", s.Keys[0], s.Keys[1])
	case StatementNotContains:
		return fmt.Sprintf("%s does not contain %s", s.Keys[0], s.Keys[1])
	case StatementSumOf:
		return fmt.Sprintf("%s = %s + %s", s.Keys[0], s.Keys[1], s.Keys[2])
	case StatementProductOf:
		return fmt.Sprintf("%s = %s × %s", s.Keys[0], s.Keys[1], s.Keys[2])
	case StatementMaxOf:
		return fmt.Sprintf("%s = max(%s, %s)", s.Keys[0], s.Keys[1], s.Keys[2])
	default:
		return fmt.Sprintf("statement(%d)", uint8(s.Kind))
	}
}
