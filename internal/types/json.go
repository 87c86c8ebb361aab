package types

import (
	"encoding/json"
	"fmt"
)

// Wire forms for statements and values. The store keeps statements as
// JSON blobs and the CLI emits proofs as JSON, so the encoding is part of
// the external surface and must stay stable.

type anchoredKeyJSON struct {
	Class string `json:"class"`
	Pod   string `json:"pod"`
	Key   string `json:"key"`
}

// MarshalJSON encodes the anchored key with a full hex pod ID.
func (ak AnchoredKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(anchoredKeyJSON{
		Class: ak.Origin.Class.String(),
		Pod:   ak.Origin.Pod.String(),
		Key:   ak.Key,
	})
}

// UnmarshalJSON decodes the anchored key wire form.
func (ak *AnchoredKey) UnmarshalJSON(data []byte) error {
	var w anchoredKeyJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	class, err := ParsePodClass(w.Class)
	if err != nil {
		return err
	}
	pod, err := ParsePodID(w.Pod)
	if err != nil {
		return err
	}
	ak.Origin = Origin{Class: class, Pod: pod}
	ak.Key = w.Key
	return nil
}

type valueJSON struct {
	Int    *int64                     `json:"int,omitempty"`
	String *string                    `json:"string,omitempty"`
	Bool   *bool                      `json:"bool,omitempty"`
	Array  []json.RawMessage          `json:"array,omitempty"`
	Set    []json.RawMessage          `json:"set,omitempty"`
	Dict   map[string]json.RawMessage `json:"dict,omitempty"`
}

// MarshalValue encodes a value as a single-field tagged object, e.g.
// {"int": 5} or {"array": [...]}.
func MarshalValue(v Value) ([]byte, error) {
	var w valueJSON
	switch val := v.(type) {
	case Int:
		n := int64(val)
		w.Int = &n
	case String:
		s := string(val)
		w.String = &s
	case Bool:
		b := bool(val)
		w.Bool = &b
	case Array:
		raw, err := marshalValueSlice(val)
		if err != nil {
			return nil, err
		}
		w.Array = raw
		if raw == nil {
			w.Array = []json.RawMessage{}
		}
	case Set:
		raw, err := marshalValueSlice(val)
		if err != nil {
			return nil, err
		}
		w.Set = raw
		if raw == nil {
			w.Set = []json.RawMessage{}
		}
	case Dict:
		w.Dict = make(map[string]json.RawMessage, len(val))
		for k, elem := range val {
			enc, err := MarshalValue(elem)
			if err != nil {
				return nil, err
			}
			w.Dict[k] = enc
		}
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
	return json.Marshal(w)
}

func marshalValueSlice(elems []Value) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	for _, elem := range elems {
		enc, err := MarshalValue(elem)
		if err != nil {
			return nil, err
		}
		raw = append(raw, enc)
	}
	return raw, nil
}

// UnmarshalValue decodes the tagged value form produced by MarshalValue.
func UnmarshalValue(data []byte) (Value, error) {
	var w valueJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	switch {
	case w.Int != nil:
		return Int(*w.Int), nil
	case w.String != nil:
		return String(*w.String), nil
	case w.Bool != nil:
		return Bool(*w.Bool), nil
	case w.Array != nil:
		elems, err := unmarshalValueSlice(w.Array)
		if err != nil {
			return nil, err
		}
		return Array(elems), nil
	case w.Set != nil:
		elems, err := unmarshalValueSlice(w.Set)
		if err != nil {
			return nil, err
		}
		return Set(elems), nil
	case w.Dict != nil:
		dict := make(Dict, len(w.Dict))
		for k, raw := range w.Dict {
			elem, err := UnmarshalValue(raw)
			if err != nil {
				return nil, err
			}
			dict[k] = elem
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("value object has no recognized variant")
	}
}

func unmarshalValueSlice(raw []json.RawMessage) ([]Value, error) {
	elems := make([]Value, len(raw))
	for i, enc := range raw {
		elem, err := UnmarshalValue(enc)
		if err != nil {
			return nil, err
		}
		elems[i] = elem
	}
	return elems, nil
}

type statementJSON struct {
	Kind  string          `json:"kind"`
	Keys  []AnchoredKey   `json:"keys"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON encodes the statement wire form.
func (s Statement) MarshalJSON() ([]byte, error) {
	w := statementJSON{Kind: s.Kind.String(), Keys: s.Keys}
	if s.Value != nil {
		enc, err := MarshalValue(s.Value)
		if err != nil {
			return nil, err
		}
		w.Value = enc
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the statement wire form and validates arity.
func (s *Statement) UnmarshalJSON(data []byte) error {
	var w statementJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, err := ParseStatementKind(w.Kind)
	if err != nil {
		return err
	}
	if len(w.Keys) != kind.Arity() {
		return fmt.Errorf("statement %s wants %d keys, got %d", kind, kind.Arity(), len(w.Keys))
	}
	var value Value
	if kind == StatementValueOf {
		if w.Value == nil {
			return fmt.Errorf("value_of statement is missing its value")
		}
		value, err = UnmarshalValue(w.Value)
		if err != nil {
			return err
		}
	}
	s.Kind = kind
	s.Keys = w.Keys
	s.Value = value
	return nil
}
