package types

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
)

// ValueKind enumerates the value variants a POD entry can hold.
type ValueKind uint8

const (
	KindInt ValueKind = iota
	KindString
	KindBool
	KindArray
	KindSet
	KindDict
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindSet:
		return "set"
	case KindDict:
		return "dict"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an entry value. Container commitments are order-insensitive for
// sets and dicts, order-sensitive for arrays.
type Value interface {
	Kind() ValueKind
	Commitment() [32]byte
	Equal(Value) bool
	String() string
}

// Int is a 64-bit integer entry value.
type Int int64

func (v Int) Kind() ValueKind { return KindInt }

func (v Int) Commitment() [32]byte {
	var buf [9]byte
	buf[0] = byte(KindInt)
	binary.BigEndian.PutUint64(buf[1:], uint64(v))
	return sha256.Sum256(buf[:])
}

func (v Int) Equal(o Value) bool {
	w, ok := o.(Int)
	return ok && v == w
}

func (v Int) String() string { return fmt.Sprintf("%d", int64(v)) }

// String is a string entry value.
type String string

func (v String) Kind() ValueKind { return KindString }

func (v String) Commitment() [32]byte {
	return sha256.Sum256(append([]byte{byte(KindString)}, v...))
}

func (v String) Equal(o Value) bool {
	w, ok := o.(String)
	return ok && v == w
}

func (v String) String() string { return string(v) }

// Bool is a boolean entry value.
type Bool bool

func (v Bool) Kind() ValueKind { return KindBool }

func (v Bool) Commitment() [32]byte {
	b := byte(0)
	if v {
		b = 1
	}
	return sha256.Sum256([]byte{byte(KindBool), b})
}

func (v Bool) Equal(o Value) bool {
	w, ok := o.(Bool)
	return ok && v == w
}

func (v Bool) String() string { return fmt.Sprintf("%t", bool(v)) }

// Array is an ordered container value.
type Array []Value

func (v Array) Kind() ValueKind { return KindArray }

func (v Array) Commitment() [32]byte {
	h := sha256.New()
	h.Write([]byte{byte(KindArray)})
	for _, elem := range v {
		c := elem.Commitment()
		h.Write(c[:])
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

func (v Array) Equal(o Value) bool {
	w, ok := o.(Array)
	if !ok || len(v) != len(w) {
		return false
	}
	for i := range v {
		if !v[i].Equal(w[i]) {
			return false
		}
	}
	return true
}

func (v Array) String() string {
	parts := make([]string, len(v))
	for i, elem := range v {
		parts[i] = elem.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Set is an unordered container value. Membership and commitment ignore
// the slice order.
type Set []Value

func (v Set) Kind() ValueKind { return KindSet }

func (v Set) Commitment() [32]byte {
	commits := make([][32]byte, len(v))
	for i, elem := range v {
		commits[i] = elem.Commitment()
	}
	sort.Slice(commits, func(i, j int) bool {
		return string(commits[i][:]) < string(commits[j][:])
	})
	h := sha256.New()
	h.Write([]byte{byte(KindSet)})
	for _, c := range commits {
		h.Write(c[:])
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

func (v Set) Equal(o Value) bool {
	w, ok := o.(Set)
	return ok && v.Commitment() == w.Commitment()
}

func (v Set) String() string {
	parts := make([]string, len(v))
	for i, elem := range v {
		parts[i] = elem.String()
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}

// Contains reports set membership.
func (v Set) Contains(elem Value) bool {
	for _, member := range v {
		if member.Equal(elem) {
			return true
		}
	}
	return false
}

// Dict is a string-keyed container value.
type Dict map[string]Value

func (v Dict) Kind() ValueKind { return KindDict }

func (v Dict) Commitment() [32]byte {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := sha256.New()
	h.Write([]byte{byte(KindDict)})
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		c := v[k].Commitment()
		h.Write(c[:])
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

func (v Dict) Equal(o Value) bool {
	w, ok := o.(Dict)
	return ok && v.Commitment() == w.Commitment()
}

func (v Dict) String() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, v[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ValueContains reports whether container holds elem. Arrays contain a
// value iff some element equals it, sets iff a member equals it.
// Containment is undefined for every other kind.
func ValueContains(container, elem Value) bool {
	switch c := container.(type) {
	case Array:
		for _, member := range c {
			if member.Equal(elem) {
				return true
			}
		}
		return false
	case Set:
		return c.Contains(elem)
	default:
		return false
	}
}
