package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robknight/pod2-prover/internal/engine"
	"github.com/robknight/pod2-prover/internal/types"
	"github.com/robknight/pod2-prover/internal/wildcard"
)

// request is the YAML prove request: a fact base and a list of targets.
type request struct {
	Facts   []statementSpec `yaml:"facts"`
	Targets []statementSpec `yaml:"targets"`
}

// statementSpec is one statement in a request. value_of statements use
// key/value, relational statements use keys.
type statementSpec struct {
	Kind  string     `yaml:"kind"`
	Key   *keySpec   `yaml:"key"`
	Keys  []keySpec  `yaml:"keys"`
	Value *valueSpec `yaml:"value"`
}

// keySpec names an anchored key. Exactly one of pod or wildcard must be
// set; wildcard keys are only legal in targets.
type keySpec struct {
	Pod      string `yaml:"pod"`
	Wildcard string `yaml:"wildcard"`
	Class    string `yaml:"class"`
	Key      string `yaml:"key"`
}

// valueSpec is the tagged value form: exactly one field set.
type valueSpec struct {
	Int    *int64               `yaml:"int"`
	String *string              `yaml:"string"`
	Bool   *bool                `yaml:"bool"`
	Array  []valueSpec          `yaml:"array"`
	Set    []valueSpec          `yaml:"set"`
	Dict   map[string]valueSpec `yaml:"dict"`
}

func loadRequest(path string) (*request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}
	var req request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

func (k keySpec) concrete() (types.AnchoredKey, error) {
	if k.Wildcard != "" {
		return types.AnchoredKey{}, fmt.Errorf("wildcard key %q not allowed here", k.Wildcard)
	}
	if k.Pod == "" || k.Key == "" {
		return types.AnchoredKey{}, fmt.Errorf("key needs pod and key fields")
	}
	switch k.Class {
	case "", "signed":
		return types.AnchoredKey{Origin: types.SignedOrigin(k.Pod), Key: k.Key}, nil
	case "main":
		return types.AnchoredKey{Origin: types.MainOrigin(k.Pod), Key: k.Key}, nil
	default:
		return types.AnchoredKey{}, fmt.Errorf("unknown pod class %q", k.Class)
	}
}

func (v valueSpec) value() (types.Value, error) {
	set := 0
	if v.Int != nil {
		set++
	}
	if v.String != nil {
		set++
	}
	if v.Bool != nil {
		set++
	}
	if v.Array != nil {
		set++
	}
	if v.Set != nil {
		set++
	}
	if v.Dict != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("value needs exactly one of int, string, bool, array, set, dict")
	}
	switch {
	case v.Int != nil:
		return types.Int(*v.Int), nil
	case v.String != nil:
		return types.String(*v.String), nil
	case v.Bool != nil:
		return types.Bool(*v.Bool), nil
	case v.Array != nil:
		elems, err := valueList(v.Array)
		if err != nil {
			return nil, err
		}
		return types.Array(elems), nil
	case v.Set != nil:
		elems, err := valueList(v.Set)
		if err != nil {
			return nil, err
		}
		return types.Set(elems), nil
	default:
		dict := make(types.Dict, len(v.Dict))
		for name, elem := range v.Dict {
			val, err := elem.value()
			if err != nil {
				return nil, fmt.Errorf("dict entry %q: %w", name, err)
			}
			dict[name] = val
		}
		return dict, nil
	}
}

func valueList(specs []valueSpec) ([]types.Value, error) {
	elems := make([]types.Value, len(specs))
	for i, spec := range specs {
		val, err := spec.value()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = val
	}
	return elems, nil
}

// fact resolves a spec into a concrete statement.
func (s statementSpec) fact() (types.Statement, error) {
	kind, err := types.ParseStatementKind(s.Kind)
	if err != nil {
		return types.Statement{}, err
	}
	if kind == types.StatementValueOf {
		if s.Key == nil || s.Value == nil {
			return types.Statement{}, fmt.Errorf("value_of needs key and value")
		}
		key, err := s.Key.concrete()
		if err != nil {
			return types.Statement{}, err
		}
		val, err := s.Value.value()
		if err != nil {
			return types.Statement{}, err
		}
		return types.ValueOf(key, val), nil
	}

	if got, want := len(s.Keys), kind.Arity(); got != want {
		return types.Statement{}, fmt.Errorf("%s needs %d keys, got %d", kind, want, got)
	}
	keys := make([]types.AnchoredKey, len(s.Keys))
	for i, spec := range s.Keys {
		key, err := spec.concrete()
		if err != nil {
			return types.Statement{}, err
		}
		keys[i] = key
	}
	return types.Statement{Kind: kind, Keys: keys}, nil
}

// proveTarget is a resolved target, concrete or wildcard, ready to run
// against an engine.
type proveTarget struct {
	label string
	run   func(context.Context, *engine.Engine) ([]engine.Proof, error)
}

// target resolves a spec into a provable target. A wildcard is only
// legal in the first key position.
func (s statementSpec) target() (proveTarget, error) {
	kind, err := types.ParseStatementKind(s.Kind)
	if err != nil {
		return proveTarget{}, err
	}
	if kind == types.StatementValueOf || len(s.Keys) == 0 || s.Keys[0].Wildcard == "" {
		stmt, err := s.fact()
		if err != nil {
			return proveTarget{}, err
		}
		return proveTarget{
			label: stmt.String(),
			run: func(ctx context.Context, eng *engine.Engine) ([]engine.Proof, error) {
				return eng.Prove(ctx, stmt)
			},
		}, nil
	}

	if got, want := len(s.Keys), kind.Arity(); got != want {
		return proveTarget{}, fmt.Errorf("%s needs %d keys, got %d", kind, want, got)
	}
	if s.Keys[0].Key == "" {
		return proveTarget{}, fmt.Errorf("wildcard key needs a key field")
	}
	rest := make([]types.AnchoredKey, 0, len(s.Keys)-1)
	for i, spec := range s.Keys[1:] {
		if spec.Wildcard != "" {
			return proveTarget{}, fmt.Errorf("only the first key may be a wildcard (key %d)", i+2)
		}
		key, err := spec.concrete()
		if err != nil {
			return proveTarget{}, err
		}
		rest = append(rest, key)
	}
	wt := wildcard.Statement{
		Kind: kind,
		Key:  wildcard.Key(s.Keys[0].Wildcard, s.Keys[0].Key),
		Rest: rest,
	}
	return proveTarget{
		label: wt.String(),
		run: func(ctx context.Context, eng *engine.Engine) ([]engine.Proof, error) {
			return eng.ProveWildcard(ctx, wt)
		},
	}, nil
}

func (r *request) factStatements() ([]types.Statement, error) {
	facts := make([]types.Statement, 0, len(r.Facts))
	for i, spec := range r.Facts {
		fact, err := spec.fact()
		if err != nil {
			return nil, fmt.Errorf("fact %d: %w", i+1, err)
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

func (r *request) proveTargets() ([]proveTarget, error) {
	targets := make([]proveTarget, 0, len(r.Targets))
	for i, spec := range r.Targets {
		target, err := spec.target()
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i+1, err)
		}
		targets = append(targets, target)
	}
	return targets, nil
}
