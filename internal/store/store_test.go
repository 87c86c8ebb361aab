package store

import (
	"path/filepath"
	"testing"

	"github.com/robknight/pod2-prover/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "facts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func sampleFacts() []types.Statement {
	return []types.Statement{
		types.ValueOf(types.At("X", "value"), types.Int(10)),
		types.ValueOf(types.At("arr", "value"), types.Array{types.Int(1), types.Int(2)}),
		types.Equal(types.At("X", "value"), types.At("Y", "value")),
		types.Gt(types.At("A", "score"), types.At("B", "score")),
	}
}

func TestSaveAndLoadFacts(t *testing.T) {
	s := openTestStore(t)

	facts := sampleFacts()
	if err := s.SaveFacts(facts); err != nil {
		t.Fatalf("SaveFacts: %v", err)
	}

	loaded, err := s.LoadFacts()
	if err != nil {
		t.Fatalf("LoadFacts: %v", err)
	}
	if len(loaded) != len(facts) {
		t.Fatalf("got %d facts, want %d", len(loaded), len(facts))
	}
	for i := range facts {
		if !loaded[i].Equals(facts[i]) {
			t.Errorf("fact %d = %s, want %s", i, loaded[i], facts[i])
		}
	}
}

func TestReplaceFacts(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveFacts(sampleFacts()); err != nil {
		t.Fatalf("SaveFacts: %v", err)
	}
	replacement := []types.Statement{
		types.Lt(types.At("A", "score"), types.At("B", "score")),
	}
	if err := s.ReplaceFacts(replacement); err != nil {
		t.Fatalf("ReplaceFacts: %v", err)
	}

	loaded, err := s.LoadFacts()
	if err != nil {
		t.Fatalf("LoadFacts: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("got %d facts, want 1", len(loaded))
	}
	if !loaded[0].Equals(replacement[0]) {
		t.Errorf("fact = %s, want %s", loaded[0], replacement[0])
	}
}

func TestClearAndCount(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveFacts(sampleFacts()); err != nil {
		t.Fatalf("SaveFacts: %v", err)
	}
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != len(sampleFacts()) {
		t.Fatalf("got %d facts, want %d", n, len(sampleFacts()))
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	n, err = s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d facts after clear, want 0", n)
	}
}

func TestLoadEmptyStore(t *testing.T) {
	s := openTestStore(t)

	loaded, err := s.LoadFacts()
	if err != nil {
		t.Fatalf("LoadFacts: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("got %d facts from empty store, want 0", len(loaded))
	}
}
