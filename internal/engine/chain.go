package engine

import (
	"fmt"

	"github.com/robknight/pod2-prover/internal/types"
)

// buildChain reconstructs a deduction chain for a statement the Datalog
// fixpoint reported as derivable. A directly known statement yields an
// empty chain. The builder mirrors the rule set in program.go: any
// statement reachable there must be reachable here too, so a failure is
// an internal inconsistency, not a user error.
func (s *session) buildChain(target types.Statement) (types.DeductionChain, error) {
	if s.isKnown(target) {
		return nil, nil
	}
	switch target.Kind {
	case types.StatementEqual:
		return s.equalChain(target.Keys[0], target.Keys[1])
	case types.StatementNotEqual:
		return s.notEqualChain(target, true)
	case types.StatementGt:
		return s.gtChain(target)
	case types.StatementLt:
		return s.ltChain(target)
	case types.StatementContains:
		return s.containsChain(target)
	case types.StatementNotContains:
		return s.notContainsChain(target)
	case types.StatementSumOf, types.StatementProductOf, types.StatementMaxOf:
		return s.arithmeticChain(target)
	default:
		return nil, fmt.Errorf("no deduction rule concludes %s", target.Kind)
	}
}

// entryPremises returns the two ValueOf premises for an entry-level step.
func (s *session) entryPremises(a, b int) ([]types.Statement, error) {
	va, ok := s.valueStatement(a)
	if !ok {
		return nil, fmt.Errorf("no value entry for %s", s.keys[a])
	}
	vb, ok := s.valueStatement(b)
	if !ok {
		return nil, fmt.Errorf("no value entry for %s", s.keys[b])
	}
	return []types.Statement{va, vb}, nil
}

// equalPath finds a shortest undirected path between two keys in the
// equality graph. Visited tracking keeps chains cycle free.
func (s *session) equalPath(from, to int) ([]eqEdge, bool) {
	if from == to {
		return nil, false
	}
	type node struct {
		idx  int
		path []eqEdge
	}
	visited := map[int]bool{from: true}
	queue := []node{{idx: from}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, edge := range s.eqEdges[cur.idx] {
			if visited[edge.to] {
				continue
			}
			path := append(append([]eqEdge(nil), cur.path...), edge)
			if edge.to == to {
				return path, true
			}
			visited[edge.to] = true
			queue = append(queue, node{idx: edge.to, path: path})
		}
	}
	return nil, false
}

// equalChain proves Equal(a, b) along a shortest equality path. Each
// entry edge is first established by EqualFromEntries and each known
// edge traversed against its stored orientation by SymmetricEqual, then
// the edges are folded left to right with TransitiveEqualFromStatements.
func (s *session) equalChain(a, b types.AnchoredKey) (types.DeductionChain, error) {
	from, to := s.intern(a), s.intern(b)
	path, ok := s.equalPath(from, to)
	if !ok {
		return nil, fmt.Errorf("no equality path from %s to %s", a, b)
	}

	var chain types.DeductionChain
	edgeStmts := make([]types.Statement, len(path))
	for i, edge := range path {
		stmt := types.Equal(s.keys[edge.from], s.keys[edge.to])
		switch {
		case edge.entry:
			premises, err := s.entryPremises(edge.from, edge.to)
			if err != nil {
				return nil, err
			}
			chain = append(chain, types.DeductionStep{
				Op:         types.OpEqualFromEntries,
				Premises:   premises,
				Conclusion: stmt,
			})
		case !s.isKnown(stmt):
			// Stored orientation is the reverse of the traversal.
			chain = append(chain, types.DeductionStep{
				Op:         types.OpSymmetricEqual,
				Premises:   []types.Statement{types.Equal(s.keys[edge.to], s.keys[edge.from])},
				Conclusion: stmt,
			})
		}
		edgeStmts[i] = stmt
	}

	acc := edgeStmts[0]
	for i := 1; i < len(path); i++ {
		conclusion := types.Equal(s.keys[from], s.keys[path[i].to])
		chain = append(chain, types.DeductionStep{
			Op:         types.OpTransitiveEqualFromStatements,
			Premises:   []types.Statement{acc, edgeStmts[i]},
			Conclusion: conclusion,
		})
		acc = conclusion
	}
	return chain, nil
}

// gtChain proves Gt(a, b) from integer value entries.
func (s *session) gtChain(target types.Statement) (types.DeductionChain, error) {
	a, b := s.intern(target.Keys[0]), s.intern(target.Keys[1])
	if !s.intGreater(a, b) {
		return nil, fmt.Errorf("no entry evidence for %s", target)
	}
	premises, err := s.entryPremises(a, b)
	if err != nil {
		return nil, err
	}
	return types.DeductionChain{{
		Op:         types.OpGtFromEntries,
		Premises:   premises,
		Conclusion: target,
	}}, nil
}

// ltChain proves Lt(a, b) from integer value entries.
func (s *session) ltChain(target types.Statement) (types.DeductionChain, error) {
	a, b := s.intern(target.Keys[0]), s.intern(target.Keys[1])
	if !s.intGreater(b, a) {
		return nil, fmt.Errorf("no entry evidence for %s", target)
	}
	premises, err := s.entryPremises(a, b)
	if err != nil {
		return nil, err
	}
	return types.DeductionChain{{
		Op:         types.OpLtFromEntries,
		Premises:   premises,
		Conclusion: target,
	}}, nil
}

func (s *session) intGreater(a, b int) bool {
	va, ok := s.values[a].(types.Int)
	if !ok {
		return false
	}
	vb, ok := s.values[b].(types.Int)
	if !ok {
		return false
	}
	return va > vb
}

// notEqualChain proves NotEqual(a, b), trying in order: differing value
// entries, a known or entry-derived order statement converted with
// GtToNotEqual or LtToNotEqual, and finally the reversed orientation
// followed by SymmetricNotEqual.
func (s *session) notEqualChain(target types.Statement, allowFlip bool) (types.DeductionChain, error) {
	a, b := s.intern(target.Keys[0]), s.intern(target.Keys[1])

	if va, ok := s.values[a]; ok {
		if vb, ok := s.values[b]; ok && !va.Equal(vb) {
			premises, err := s.entryPremises(a, b)
			if err != nil {
				return nil, err
			}
			return types.DeductionChain{{
				Op:         types.OpNotEqualFromEntries,
				Premises:   premises,
				Conclusion: target,
			}}, nil
		}
	}

	gt := types.Gt(target.Keys[0], target.Keys[1])
	if _, ok := s.knownGt[[2]int{a, b}]; ok || s.intGreater(a, b) {
		chain, err := s.buildChain(gt)
		if err != nil {
			return nil, err
		}
		return append(chain, types.DeductionStep{
			Op:         types.OpGtToNotEqual,
			Premises:   []types.Statement{gt},
			Conclusion: target,
		}), nil
	}

	lt := types.Lt(target.Keys[0], target.Keys[1])
	if _, ok := s.knownLt[[2]int{a, b}]; ok || s.intGreater(b, a) {
		chain, err := s.buildChain(lt)
		if err != nil {
			return nil, err
		}
		return append(chain, types.DeductionStep{
			Op:         types.OpLtToNotEqual,
			Premises:   []types.Statement{lt},
			Conclusion: target,
		}), nil
	}

	if allowFlip {
		reversed := types.NotEqual(target.Keys[1], target.Keys[0])
		var chain types.DeductionChain
		var err error
		if s.isKnown(reversed) {
			chain = nil
		} else if chain, err = s.notEqualChain(reversed, false); err != nil {
			return nil, err
		}
		return append(chain, types.DeductionStep{
			Op:         types.OpSymmetricNotEqual,
			Premises:   []types.Statement{reversed},
			Conclusion: target,
		}), nil
	}
	return nil, fmt.Errorf("no inequality evidence for %s", target)
}

// containsChain proves Contains(a, b) from a container value entry, or
// by renaming a containment on an equal key through
// RenameContainsFromEqual.
func (s *session) containsChain(target types.Statement) (types.DeductionChain, error) {
	a, b := s.intern(target.Keys[0]), s.intern(target.Keys[1])

	if s.entryContains[[2]int{a, b}] {
		premises, err := s.entryPremises(a, b)
		if err != nil {
			return nil, err
		}
		return types.DeductionChain{{
			Op:         types.OpContainsFromEntries,
			Premises:   premises,
			Conclusion: target,
		}}, nil
	}

	// Renaming: find a key equal to a that is known (or entry derived)
	// to contain b.
	for c := range s.keys {
		if c == a {
			continue
		}
		_, known := s.knownContains[[2]int{c, b}]
		if !known && !s.entryContains[[2]int{c, b}] {
			continue
		}
		if _, reachable := s.equalPath(a, c); !reachable {
			continue
		}
		eq := types.Equal(s.keys[a], s.keys[c])
		inner := types.Contains(s.keys[c], target.Keys[1])

		chain, err := s.buildChain(eq)
		if err != nil {
			return nil, err
		}
		innerChain, err := s.buildChain(inner)
		if err != nil {
			return nil, err
		}
		chain = append(chain, innerChain...)
		return append(chain, types.DeductionStep{
			Op:         types.OpRenameContainsFromEqual,
			Premises:   []types.Statement{eq, inner},
			Conclusion: target,
		}), nil
	}
	return nil, fmt.Errorf("no containment evidence for %s", target)
}

// notContainsChain proves NotContains(a, b) from a container value entry
// that does not hold b.
func (s *session) notContainsChain(target types.Statement) (types.DeductionChain, error) {
	a, b := s.intern(target.Keys[0]), s.intern(target.Keys[1])
	va, ok := s.values[a]
	if !ok {
		return nil, fmt.Errorf("no value entry for %s", target.Keys[0])
	}
	vb, ok := s.values[b]
	if !ok {
		return nil, fmt.Errorf("no value entry for %s", target.Keys[1])
	}
	kind := va.Kind()
	if kind != types.KindArray && kind != types.KindSet {
		return nil, fmt.Errorf("%s does not hold a container", target.Keys[0])
	}
	if types.ValueContains(va, vb) {
		return nil, fmt.Errorf("no non-containment evidence for %s", target)
	}
	premises, err := s.entryPremises(a, b)
	if err != nil {
		return nil, err
	}
	return types.DeductionChain{{
		Op:         types.OpNotContainsFromEntries,
		Premises:   premises,
		Conclusion: target,
	}}, nil
}

// arithmeticChain proves SumOf, ProductOf or MaxOf from three integer
// value entries.
func (s *session) arithmeticChain(target types.Statement) (types.DeductionChain, error) {
	vals := make([]int64, 3)
	premises := make([]types.Statement, 3)
	for i, key := range target.Keys {
		idx := s.intern(key)
		v, ok := s.values[idx].(types.Int)
		if !ok {
			return nil, fmt.Errorf("no integer entry for %s", key)
		}
		stmt, _ := s.valueStatement(idx)
		vals[i] = int64(v)
		premises[i] = stmt
	}

	var op types.Op
	var holds bool
	switch target.Kind {
	case types.StatementSumOf:
		op, holds = types.OpSumOf, vals[0] == vals[1]+vals[2]
	case types.StatementProductOf:
		op, holds = types.OpProductOf, vals[0] == vals[1]*vals[2]
	case types.StatementMaxOf:
		op, holds = types.OpMaxOf, vals[0] == max(vals[1], vals[2])
	}
	if !holds {
		return nil, fmt.Errorf("no entry evidence for %s", target)
	}
	return types.DeductionChain{{
		Op:         op,
		Premises:   premises,
		Conclusion: target,
	}}, nil
}
