// Package wildcard provides target statements whose first anchored key
// may match any origin with a given key name. The prover enumerates every
// concrete key the wildcard binds to.
package wildcard

import (
	"fmt"

	"github.com/robknight/pod2-prover/internal/types"
)

// ID is either a concrete origin or a named placeholder.
type ID struct {
	origin types.Origin
	name   string
	named  bool
}

// Concrete builds an ID that matches a single origin.
func Concrete(origin types.Origin) ID {
	return ID{origin: origin}
}

// Named builds a placeholder ID that matches any origin.
func Named(name string) ID {
	return ID{name: name, named: true}
}

// Named reports whether the ID is a placeholder.
func (id ID) Named() bool { return id.named }

// Name returns the placeholder name; empty for concrete IDs.
func (id ID) Name() string { return id.name }

func (id ID) String() string {
	if id.named {
		return "?" + id.name
	}
	return id.origin.String()
}

// AnchoredKey is an anchored key whose origin may be a placeholder.
type AnchoredKey struct {
	ID  ID
	Key string
}

// Key builds a named-placeholder anchored key.
func Key(name, key string) AnchoredKey {
	return AnchoredKey{ID: Named(name), Key: key}
}

// Matches reports whether the wildcard key covers a concrete key.
// Concrete IDs require origin and key equality; placeholders require key
// equality only.
func (ak AnchoredKey) Matches(concrete types.AnchoredKey) bool {
	if ak.Key != concrete.Key {
		return false
	}
	if ak.ID.named {
		return true
	}
	return ak.ID.origin == concrete.Origin
}

func (ak AnchoredKey) String() string {
	return fmt.Sprintf("%s.%s", ak.ID, ak.Key)
}

// Statement is a target statement with a wildcard in the first key
// position and concrete keys in the rest.
type Statement struct {
	Kind types.StatementKind
	Key  AnchoredKey
	Rest []types.AnchoredKey
}

// Equal targets Equal(?, b).
func Equal(key AnchoredKey, b types.AnchoredKey) Statement {
	return Statement{Kind: types.StatementEqual, Key: key, Rest: []types.AnchoredKey{b}}
}

// NotEqual targets NotEqual(?, b).
func NotEqual(key AnchoredKey, b types.AnchoredKey) Statement {
	return Statement{Kind: types.StatementNotEqual, Key: key, Rest: []types.AnchoredKey{b}}
}

// Gt targets Gt(?, b).
func Gt(key AnchoredKey, b types.AnchoredKey) Statement {
	return Statement{Kind: types.StatementGt, Key: key, Rest: []types.AnchoredKey{b}}
}

// Lt targets Lt(?, b).
func Lt(key AnchoredKey, b types.AnchoredKey) Statement {
	return Statement{Kind: types.StatementLt, Key: key, Rest: []types.AnchoredKey{b}}
}

// Contains targets Contains(?, b).
func Contains(key AnchoredKey, b types.AnchoredKey) Statement {
	return Statement{Kind: types.StatementContains, Key: key, Rest: []types.AnchoredKey{b}}
}

// NotContains targets NotContains(?, b).
func NotContains(key AnchoredKey, b types.AnchoredKey) Statement {
	return Statement{Kind: types.StatementNotContains, Key: key, Rest: []types.AnchoredKey{b}}
}

// SumOf targets SumOf(?, a, b).
func SumOf(key AnchoredKey, a, b types.AnchoredKey) Statement {
	return Statement{Kind: types.StatementSumOf, Key: key, Rest: []types.AnchoredKey{a, b}}
}

// ProductOf targets ProductOf(?, a, b).
func ProductOf(key AnchoredKey, a, b types.AnchoredKey) Statement {
	return Statement{Kind: types.StatementProductOf, Key: key, Rest: []types.AnchoredKey{a, b}}
}

// MaxOf targets MaxOf(?, a, b).
func MaxOf(key AnchoredKey, a, b types.AnchoredKey) Statement {
	return Statement{Kind: types.StatementMaxOf, Key: key, Rest: []types.AnchoredKey{a, b}}
}

// FromStatement lifts a concrete statement into a wildcard statement
// whose first key is pinned to its concrete origin. ValueOf and None
// statements have no wildcard form.
func FromStatement(s types.Statement) (Statement, error) {
	switch s.Kind {
	case types.StatementNone, types.StatementValueOf:
		return Statement{}, fmt.Errorf("statement kind %s has no wildcard form", s.Kind)
	}
	first := s.Keys[0]
	return Statement{
		Kind: s.Kind,
		Key:  AnchoredKey{ID: Concrete(first.Origin), Key: first.Key},
		Rest: s.Keys[1:],
	}, nil
}

// Bind substitutes a concrete key for the wildcard position.
func (s Statement) Bind(found types.AnchoredKey) types.Statement {
	keys := append([]types.AnchoredKey{found}, s.Rest...)
	return types.Statement{Kind: s.Kind, Keys: keys}
}

func (s Statement) String() string {
	bound := s.Bind(types.AnchoredKey{Key: s.Key.String()})
	return bound.String()
}
