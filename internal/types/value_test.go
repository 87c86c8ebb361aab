package types

import "testing"

func TestValueEquality(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal ints", Int(5), Int(5), true},
		{"different ints", Int(5), Int(6), false},
		{"int vs string", Int(5), String("5"), false},
		{"equal strings", String("x"), String("x"), true},
		{"equal bools", Bool(true), Bool(true), true},
		{"different bools", Bool(true), Bool(false), false},
		{"equal arrays", Array{Int(1), Int(2)}, Array{Int(1), Int(2)}, true},
		{"array order matters", Array{Int(1), Int(2)}, Array{Int(2), Int(1)}, false},
		{"set order ignored", Set{Int(1), Int(2)}, Set{Int(2), Int(1)}, true},
		{"different sets", Set{Int(1)}, Set{Int(2)}, false},
		{"equal dicts", Dict{"a": Int(1)}, Dict{"a": Int(1)}, true},
		{"different dicts", Dict{"a": Int(1)}, Dict{"a": Int(2)}, false},
		{"array vs set", Array{Int(1)}, Set{Int(1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("%s.Equal(%s) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if tc.want {
				if tc.a.Commitment() != tc.b.Commitment() {
					t.Errorf("equal values %s and %s have different commitments", tc.a, tc.b)
				}
			} else if tc.a.Commitment() == tc.b.Commitment() {
				t.Errorf("unequal values %s and %s share a commitment", tc.a, tc.b)
			}
		})
	}
}

func TestValueContains(t *testing.T) {
	arr := Array{Int(1), Int(2), Int(3)}
	set := Set{String("red"), String("green")}

	cases := []struct {
		name      string
		container Value
		elem      Value
		want      bool
	}{
		{"array holds member", arr, Int(2), true},
		{"array misses non-member", arr, Int(4), false},
		{"array kind sensitive", arr, String("2"), false},
		{"set holds member", set, String("green"), true},
		{"set misses non-member", set, String("blue"), false},
		{"scalar contains nothing", Int(5), Int(5), false},
		{"string contains nothing", String("abc"), String("a"), false},
		{"dict contains nothing", Dict{"a": Int(1)}, Int(1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValueContains(tc.container, tc.elem); got != tc.want {
				t.Errorf("ValueContains(%s, %s) = %v, want %v", tc.container, tc.elem, got, tc.want)
			}
		})
	}
}

func TestNestedContainerCommitments(t *testing.T) {
	a := Array{Set{Int(1), Int(2)}, Dict{"k": String("v")}}
	b := Array{Set{Int(2), Int(1)}, Dict{"k": String("v")}}
	if a.Commitment() != b.Commitment() {
		t.Error("set reordering inside an array should not change the commitment")
	}
	if !a.Equal(b) {
		t.Error("nested containers with reordered sets should be equal")
	}
}
