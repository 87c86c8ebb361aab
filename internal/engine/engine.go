package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/robknight/pod2-prover/internal/types"
	"github.com/robknight/pod2-prover/internal/wildcard"
)

// Config controls engine limits.
type Config struct {
	// FactLimit caps the number of asserted facts.
	FactLimit int
	// QueryTimeout bounds a single prove call when the caller's context
	// carries no deadline.
	QueryTimeout time.Duration
}

// DefaultConfig returns the default engine limits.
func DefaultConfig() Config {
	return Config{
		FactLimit:    100000,
		QueryTimeout: 30 * time.Second,
	}
}

// Engine is a deduction engine over anchored-key statements. Facts are
// asserted up front; Prove and ProveWildcard evaluate the rule set to
// fixpoint and return proofs with explicit deduction chains. Safe for
// concurrent use.
type Engine struct {
	mu     sync.RWMutex
	cfg    Config
	logger *zap.Logger
	prog   *compiledProgram
	facts  []types.Statement
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards logs.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine with the given limits.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.FactLimit <= 0 {
		cfg.FactLimit = DefaultConfig().FactLimit
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = DefaultConfig().QueryTimeout
	}
	prog, err := compileProgram()
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		logger: zap.NewNop(),
		prog:   prog,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// AddFact asserts one statement as known.
func (e *Engine) AddFact(fact types.Statement) error {
	return e.AddFacts([]types.Statement{fact})
}

// AddFacts asserts a batch of statements as known.
func (e *Engine) AddFacts(facts []types.Statement) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.facts)+len(facts) > e.cfg.FactLimit {
		return fmt.Errorf("fact limit %d exceeded", e.cfg.FactLimit)
	}
	for _, fact := range facts {
		if err := validateFact(fact); err != nil {
			return err
		}
	}
	e.facts = append(e.facts, facts...)
	return nil
}

func validateFact(fact types.Statement) error {
	if fact.Kind == types.StatementNone {
		return fmt.Errorf("cannot assert a None statement")
	}
	if got, want := len(fact.Keys), fact.Kind.Arity(); got != want {
		return fmt.Errorf("%s statement needs %d keys, got %d", fact.Kind, want, got)
	}
	if fact.Kind == types.StatementValueOf && fact.Value == nil {
		return fmt.Errorf("value_of statement needs a value")
	}
	return nil
}

// Facts returns a copy of the asserted facts.
func (e *Engine) Facts() []types.Statement {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]types.Statement, len(e.facts))
	copy(out, e.facts)
	return out
}

// Reset drops all asserted facts.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.facts = nil
}

// Prove attempts to derive a concrete target statement. It returns one
// proof when the target is derivable and an empty slice when it is not;
// an unprovable target is not an error.
func (e *Engine) Prove(ctx context.Context, target types.Statement) ([]Proof, error) {
	if target.Kind == types.StatementNone {
		return nil, fmt.Errorf("cannot prove a None statement")
	}
	if target.Kind == types.StatementValueOf {
		return e.proveValueOf(target)
	}
	wt, err := wildcard.FromStatement(target)
	if err != nil {
		return nil, err
	}
	return e.ProveWildcard(ctx, wt)
}

// proveValueOf checks direct membership; values are never deduced.
func (e *Engine) proveValueOf(target types.Statement) ([]Proof, error) {
	for _, fact := range e.Facts() {
		if fact.Equals(target) {
			return []Proof{{Statement: target}}, nil
		}
	}
	return nil, nil
}

// ProveWildcard attempts to derive a target whose first anchored key may
// be a wildcard. Every fact whose origin carries the wildcard's key
// string is a candidate binding; all derivable bindings are returned.
func (e *Engine) ProveWildcard(ctx context.Context, target wildcard.Statement) ([]Proof, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.QueryTimeout)
		defer cancel()
	}

	facts := e.Facts()
	session := uuid.NewString()
	start := time.Now()
	e.logger.Debug("prove session started",
		zap.String("session", session),
		zap.Int("facts", len(facts)),
		zap.String("kind", target.Kind.String()),
	)

	type result struct {
		proofs []Proof
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		proofs, err := prove(e.prog, facts, target)
		ch <- result{proofs, err}
	}()

	select {
	case <-ctx.Done():
		e.logger.Warn("prove session aborted",
			zap.String("session", session),
			zap.Error(ctx.Err()),
		)
		return nil, ctx.Err()
	case r := <-ch:
		e.logger.Debug("prove session finished",
			zap.String("session", session),
			zap.Int("proofs", len(r.proofs)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(r.err),
		)
		return r.proofs, r.err
	}
}

// prove runs one full evaluation: build the session, derive entry facts,
// evaluate to fixpoint, match the target against the derived relation
// and reconstruct a chain per match.
func prove(prog *compiledProgram, facts []types.Statement, target wildcard.Statement) ([]Proof, error) {
	s := newSession(prog, facts)

	// Intern the target's concrete keys so exact matches resolve even
	// when no fact mentions them.
	for _, key := range target.Rest {
		s.intern(key)
	}
	s.deriveEntryFacts(target.Kind)
	if err := s.evaluate(); err != nil {
		return nil, err
	}

	tuples, err := s.derivedTuples(target.Kind)
	if err != nil {
		return nil, err
	}
	restIdx := make([]int, len(target.Rest))
	for i, key := range target.Rest {
		restIdx[i] = s.intern(key)
	}

	var matched []int
	seen := make(map[int]bool)
	for _, tuple := range tuples {
		if !tupleMatches(tuple, restIdx) {
			continue
		}
		first := tuple[0]
		if seen[first] || !target.Key.Matches(s.keys[first]) {
			continue
		}
		// The equality closure is reflexive on connected keys; a key is
		// not evidence for its own equality.
		if target.Kind == types.StatementEqual && len(restIdx) == 1 && first == restIdx[0] {
			continue
		}
		seen[first] = true
		matched = append(matched, first)
	}
	// Interning order is assertion order, so proofs come out stable.
	sort.Ints(matched)

	proofs := make([]Proof, 0, len(matched))
	for _, first := range matched {
		stmt := target.Bind(s.keys[first])
		chain, err := s.buildChain(stmt)
		if err != nil {
			return nil, fmt.Errorf("reconstruct chain for %s: %w", stmt, err)
		}
		proofs = append(proofs, Proof{Statement: stmt, Chain: chain})
	}
	return proofs, nil
}

func tupleMatches(tuple, restIdx []int) bool {
	if len(tuple) != len(restIdx)+1 {
		return false
	}
	for i, idx := range restIdx {
		if tuple[i+1] != idx {
			return false
		}
	}
	return true
}
