package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"github.com/robknight/pod2-prover/internal/types"
)

// program is the fixed Datalog core of the prover. EDB predicates are
// asserted per prove session: known_* atoms mirror the fact set, entry_*
// atoms are derived in Go from ValueOf entries. The derived_* predicates
// are what targets are matched against. All rules are positive, so the
// program is trivially stratified.
const program = `
Decl known_equal(A, B).
Decl known_not_equal(A, B).
Decl known_gt(A, B).
Decl known_lt(A, B).
Decl known_contains(A, B).
Decl known_not_contains(A, B).
Decl known_sum(S, A, B).
Decl known_product(P, A, B).
Decl known_max(M, A, B).

Decl entry_eq(A, B).
Decl entry_neq(A, B).
Decl entry_gt(A, B).
Decl entry_lt(A, B).
Decl entry_contains(A, B).
Decl entry_not_contains(A, B).
Decl sum_entry(S, A, B).
Decl product_entry(P, A, B).
Decl max_entry(M, A, B).

Decl eq_edge(A, B).
Decl eq_sym(A, B).
Decl eq_reach(A, B).
Decl derived_eq(A, B).
Decl derived_neq(A, B).
Decl derived_gt(A, B).
Decl derived_lt(A, B).
Decl derived_contains(A, B).
Decl derived_not_contains(A, B).
Decl derived_sum(S, A, B).
Decl derived_product(P, A, B).
Decl derived_max(M, A, B).

# Undirected transitive closure of equality.
eq_edge(A, B) :- known_equal(A, B).
eq_edge(A, B) :- entry_eq(A, B).
eq_sym(A, B) :- eq_edge(A, B).
eq_sym(B, A) :- eq_edge(A, B).
eq_reach(A, B) :- eq_sym(A, B).
eq_reach(A, C) :- eq_reach(A, B), eq_sym(B, C).
derived_eq(A, B) :- eq_reach(A, B).

derived_gt(A, B) :- known_gt(A, B).
derived_gt(A, B) :- entry_gt(A, B).
derived_lt(A, B) :- known_lt(A, B).
derived_lt(A, B) :- entry_lt(A, B).

# NotEqual from direct facts, differing entries, or order statements,
# closed under symmetry.
derived_neq(A, B) :- known_not_equal(A, B).
derived_neq(A, B) :- entry_neq(A, B).
derived_neq(A, B) :- derived_gt(A, B).
derived_neq(A, B) :- derived_lt(A, B).
derived_neq(B, A) :- derived_neq(A, B).

# Contains from direct facts or container entries, renamed through the
# equality closure.
derived_contains(A, B) :- known_contains(A, B).
derived_contains(A, B) :- entry_contains(A, B).
derived_contains(A, B) :- eq_reach(A, C), derived_contains(C, B).

derived_not_contains(A, B) :- known_not_contains(A, B).
derived_not_contains(A, B) :- entry_not_contains(A, B).

derived_sum(S, A, B) :- known_sum(S, A, B).
derived_sum(S, A, B) :- sum_entry(S, A, B).
derived_product(P, A, B) :- known_product(P, A, B).
derived_product(P, A, B) :- product_entry(P, A, B).
derived_max(M, A, B) :- known_max(M, A, B).
derived_max(M, A, B) :- max_entry(M, A, B).
`

// compiledProgram is the analyzed rule set plus a name index over its
// declared predicates.
type compiledProgram struct {
	info  *analysis.ProgramInfo
	preds map[string]ast.PredicateSym
}

// compileProgram parses and analyzes the static rule set once per engine.
func compileProgram() (*compiledProgram, error) {
	unit, err := parse.Unit(strings.NewReader(program))
	if err != nil {
		return nil, fmt.Errorf("parse deduction rules: %w", err)
	}
	info, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("analyze deduction rules: %w", err)
	}
	preds := make(map[string]ast.PredicateSym, len(info.Decls))
	for sym := range info.Decls {
		preds[sym.Symbol] = sym
	}
	return &compiledProgram{info: info, preds: preds}, nil
}

// knownPredicates maps relational statement kinds to their EDB predicate.
var knownPredicates = map[types.StatementKind]string{
	types.StatementEqual:       "known_equal",
	types.StatementNotEqual:    "known_not_equal",
	types.StatementGt:          "known_gt",
	types.StatementLt:          "known_lt",
	types.StatementContains:    "known_contains",
	types.StatementNotContains: "known_not_contains",
	types.StatementSumOf:       "known_sum",
	types.StatementProductOf:   "known_product",
	types.StatementMaxOf:       "known_max",
}

// derivedPredicates maps target kinds to the derived predicate matched
// against.
var derivedPredicates = map[types.StatementKind]string{
	types.StatementEqual:       "derived_eq",
	types.StatementNotEqual:    "derived_neq",
	types.StatementGt:          "derived_gt",
	types.StatementLt:          "derived_lt",
	types.StatementContains:    "derived_contains",
	types.StatementNotContains: "derived_not_contains",
	types.StatementSumOf:       "derived_sum",
	types.StatementProductOf:   "derived_product",
	types.StatementMaxOf:       "derived_max",
}

// eqEdge is one undirected equality edge with its provenance: either a
// known Equal fact (in its stored orientation) or an equal-entries pair.
type eqEdge struct {
	from, to int
	entry    bool
	fact     types.Statement
}

// session is the per-prove evaluation state: an interned key space, the
// value table, the equality graph, and a mangle fact store evaluated to
// fixpoint.
type session struct {
	prog  *compiledProgram
	store factstore.FactStore

	keys   []types.AnchoredKey
	keyIdx map[types.AnchoredKey]int
	names  []ast.Constant
	byName map[string]int

	values  map[int]types.Value
	valueOf map[int]types.Statement

	facts   []types.Statement
	known   map[string]bool
	eqEdges map[int][]eqEdge

	// per-kind EDB indexes used by the chain builder
	knownGt       map[[2]int]types.Statement
	knownLt       map[[2]int]types.Statement
	knownContains map[[2]int]types.Statement
	entryContains map[[2]int]bool
}

func newSession(prog *compiledProgram, facts []types.Statement) *session {
	s := &session{
		prog:          prog,
		store:         factstore.NewSimpleInMemoryStore(),
		keyIdx:        make(map[types.AnchoredKey]int),
		byName:        make(map[string]int),
		values:        make(map[int]types.Value),
		valueOf:       make(map[int]types.Statement),
		facts:         facts,
		known:         make(map[string]bool),
		eqEdges:       make(map[int][]eqEdge),
		knownGt:       make(map[[2]int]types.Statement),
		knownLt:       make(map[[2]int]types.Statement),
		knownContains: make(map[[2]int]types.Statement),
		entryContains: make(map[[2]int]bool),
	}
	for _, fact := range facts {
		s.ingest(fact)
	}
	return s
}

// intern maps an anchored key to its index, minting a mangle name
// constant on first sight.
func (s *session) intern(key types.AnchoredKey) int {
	if idx, ok := s.keyIdx[key]; ok {
		return idx
	}
	idx := len(s.keys)
	name, err := ast.Name(fmt.Sprintf("/ak%d", idx))
	if err != nil {
		// The generated symbol is always a valid name.
		panic(err)
	}
	s.keys = append(s.keys, key)
	s.names = append(s.names, name)
	s.keyIdx[key] = idx
	s.byName[name.Symbol] = idx
	return idx
}

// fingerprint identifies a statement within the session's key space.
func (s *session) fingerprint(stmt types.Statement) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", stmt.Kind)
	for _, key := range stmt.Keys {
		fmt.Fprintf(&sb, "|%d", s.intern(key))
	}
	if stmt.Value != nil {
		c := stmt.Value.Commitment()
		fmt.Fprintf(&sb, "|%x", c[:8])
	}
	return sb.String()
}

func (s *session) isKnown(stmt types.Statement) bool {
	return s.known[s.fingerprint(stmt)]
}

// ingest records one fact: interning, value table, EDB atom, equality
// graph, and chain-builder indexes.
func (s *session) ingest(fact types.Statement) {
	idxs := make([]int, len(fact.Keys))
	for i, key := range fact.Keys {
		idxs[i] = s.intern(key)
	}
	s.known[s.fingerprint(fact)] = true

	switch fact.Kind {
	case types.StatementValueOf:
		s.values[idxs[0]] = fact.Value
		s.valueOf[idxs[0]] = fact
		return
	case types.StatementEqual:
		s.addEqEdge(eqEdge{from: idxs[0], to: idxs[1], fact: fact})
	case types.StatementGt:
		s.knownGt[[2]int{idxs[0], idxs[1]}] = fact
	case types.StatementLt:
		s.knownLt[[2]int{idxs[0], idxs[1]}] = fact
	case types.StatementContains:
		s.knownContains[[2]int{idxs[0], idxs[1]}] = fact
	}

	pred, ok := knownPredicates[fact.Kind]
	if !ok {
		return
	}
	s.addAtom(pred, idxs...)
}

func (s *session) addEqEdge(edge eqEdge) {
	s.eqEdges[edge.from] = append(s.eqEdges[edge.from], edge)
	reversed := eqEdge{from: edge.to, to: edge.from, entry: edge.entry, fact: edge.fact}
	s.eqEdges[edge.to] = append(s.eqEdges[edge.to], reversed)
}

func (s *session) addAtom(pred string, idxs ...int) {
	terms := make([]ast.BaseTerm, len(idxs))
	for i, idx := range idxs {
		terms[i] = s.names[idx]
	}
	s.store.Add(ast.NewAtom(pred, terms...))
}

// deriveEntryFacts computes entry-level EDB atoms from the value table.
// Pairwise comparison facts are always derived; containment pairs and
// arithmetic triples are goal-directed because those scans are quadratic
// and cubic over value-bearing keys.
func (s *session) deriveEntryFacts(target types.StatementKind) {
	valued := make([]int, 0, len(s.values))
	for idx := range s.values {
		valued = append(valued, idx)
	}
	// Deterministic order keeps proofs stable across runs.
	sort.Ints(valued)

	for _, a := range valued {
		for _, b := range valued {
			if a == b {
				continue
			}
			va, vb := s.values[a], s.values[b]
			if va.Equal(vb) {
				s.addAtom("entry_eq", a, b)
				if a < b {
					s.addEqEdge(eqEdge{from: a, to: b, entry: true})
				}
			} else {
				s.addAtom("entry_neq", a, b)
			}
			ia, aInt := va.(types.Int)
			ib, bInt := vb.(types.Int)
			if aInt && bInt {
				if ia > ib {
					s.addAtom("entry_gt", a, b)
				} else if ia < ib {
					s.addAtom("entry_lt", a, b)
				}
			}
		}
	}

	if target == types.StatementContains || target == types.StatementNotContains {
		for _, a := range valued {
			kind := s.values[a].Kind()
			if kind != types.KindArray && kind != types.KindSet {
				continue
			}
			for _, b := range valued {
				if a == b {
					continue
				}
				if types.ValueContains(s.values[a], s.values[b]) {
					s.addAtom("entry_contains", a, b)
					s.entryContains[[2]int{a, b}] = true
				} else {
					s.addAtom("entry_not_contains", a, b)
				}
			}
		}
	}

	switch target {
	case types.StatementSumOf, types.StatementProductOf, types.StatementMaxOf:
		ints := make([]int, 0, len(valued))
		for _, idx := range valued {
			if _, ok := s.values[idx].(types.Int); ok {
				ints = append(ints, idx)
			}
		}
		for _, r := range ints {
			vr := int64(s.values[r].(types.Int))
			for _, a := range ints {
				va := int64(s.values[a].(types.Int))
				for _, b := range ints {
					vb := int64(s.values[b].(types.Int))
					switch target {
					case types.StatementSumOf:
						if vr == va+vb {
							s.addAtom("sum_entry", r, a, b)
						}
					case types.StatementProductOf:
						if vr == va*vb {
							s.addAtom("product_entry", r, a, b)
						}
					case types.StatementMaxOf:
						if vr == max(va, vb) {
							s.addAtom("max_entry", r, a, b)
						}
					}
				}
			}
		}
	}
}

// evaluate runs the Datalog program to fixpoint over the session store.
func (s *session) evaluate() error {
	if _, err := mengine.EvalProgramWithStats(s.prog.info, s.store); err != nil {
		return fmt.Errorf("evaluate deduction rules: %w", err)
	}
	return nil
}

// derivedTuples enumerates the derived predicate for a target kind as
// key-index tuples.
func (s *session) derivedTuples(kind types.StatementKind) ([][]int, error) {
	pred, ok := derivedPredicates[kind]
	if !ok {
		return nil, fmt.Errorf("statement kind %s is not derivable", kind)
	}
	sym, ok := s.prog.preds[pred]
	if !ok {
		return nil, fmt.Errorf("predicate %s is not declared", pred)
	}
	var tuples [][]int
	err := s.store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		tuple := make([]int, len(atom.Args))
		for i, arg := range atom.Args {
			c, ok := arg.(ast.Constant)
			if !ok {
				return fmt.Errorf("unexpected non-constant term %v in %s", arg, pred)
			}
			idx, ok := s.byName[c.Symbol]
			if !ok {
				return fmt.Errorf("unknown key constant %s in %s", c.Symbol, pred)
			}
			tuple[i] = idx
		}
		tuples = append(tuples, tuple)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tuples, nil
}

func (s *session) valueStatement(idx int) (types.Statement, bool) {
	stmt, ok := s.valueOf[idx]
	return stmt, ok
}
