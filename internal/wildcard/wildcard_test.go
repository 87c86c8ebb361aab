package wildcard

import (
	"testing"

	"github.com/robknight/pod2-prover/internal/types"
)

func TestMatches(t *testing.T) {
	cases := []struct {
		name     string
		key      AnchoredKey
		concrete types.AnchoredKey
		want     bool
	}{
		{
			"named matches any origin with the key",
			Key("n", "value"),
			types.At("X", "value"),
			true,
		},
		{
			"named requires the key string",
			Key("n", "value"),
			types.At("X", "other"),
			false,
		},
		{
			"concrete requires the origin",
			AnchoredKey{ID: Concrete(types.SignedOrigin("X")), Key: "value"},
			types.At("X", "value"),
			true,
		},
		{
			"concrete rejects other origins",
			AnchoredKey{ID: Concrete(types.SignedOrigin("X")), Key: "value"},
			types.At("Y", "value"),
			false,
		},
		{
			"concrete distinguishes pod class",
			AnchoredKey{ID: Concrete(types.MainOrigin("X")), Key: "value"},
			types.At("X", "value"),
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.key.Matches(tc.concrete); got != tc.want {
				t.Errorf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFromStatement(t *testing.T) {
	x := types.At("X", "x")
	y := types.At("Y", "y")

	wt, err := FromStatement(types.Gt(x, y))
	if err != nil {
		t.Fatalf("FromStatement: %v", err)
	}
	if !wt.Key.Matches(x) {
		t.Error("lifted first key should match its own origin")
	}
	if wt.Key.Matches(types.At("Z", "x")) {
		t.Error("lifted first key should be pinned to its origin")
	}
	if !wt.Bind(x).Equals(types.Gt(x, y)) {
		t.Error("binding the lifted key should reproduce the statement")
	}

	if _, err := FromStatement(types.ValueOf(x, types.Int(1))); err == nil {
		t.Error("value_of has no wildcard form")
	}
	if _, err := FromStatement(types.Statement{Kind: types.StatementNone}); err == nil {
		t.Error("none has no wildcard form")
	}
}

func TestBind(t *testing.T) {
	a := types.At("A", "a")
	b := types.At("B", "b")
	found := types.At("F", "value")

	got := SumOf(Key("n", "value"), a, b).Bind(found)
	want := types.SumOf(found, a, b)
	if !got.Equals(want) {
		t.Errorf("Bind = %s, want %s", got, want)
	}
}
