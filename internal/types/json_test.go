package types

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStatementJSONRoundTrip(t *testing.T) {
	stmts := []Statement{
		ValueOf(At("user", "age"), Int(25)),
		ValueOf(At("user", "name"), String("alice")),
		ValueOf(At("user", "active"), Bool(true)),
		ValueOf(At("user", "scores"), Array{Int(1), Int(2), Int(3)}),
		ValueOf(At("user", "tags"), Set{String("a"), String("b")}),
		ValueOf(At("user", "profile"), Dict{"city": String("zurich"), "zip": Int(8001)}),
		Equal(At("X", "x"), At("Y", "y")),
		NotEqual(AnchoredKey{Origin: MainOrigin("M"), Key: "m"}, At("Y", "y")),
		SumOf(At("S", "s"), At("A", "a"), At("B", "b")),
	}
	for _, stmt := range stmts {
		data, err := json.Marshal(stmt)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", stmt, err)
		}
		var got Statement
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if !got.Equals(stmt) {
			t.Errorf("round trip changed %s into %s", stmt, got)
		}
	}
}

func TestStatementJSONShape(t *testing.T) {
	stmt := ValueOf(At("user", "age"), Int(25))
	data, err := json.Marshal(stmt)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := map[string]any{
		"kind": "value_of",
		"keys": []any{map[string]any{
			"class": "signed",
			"pod":   HashString("user").String(),
			"key":   "age",
		}},
		"value": map[string]any{"int": float64(25)},
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("wire form mismatch (-want +got):\n%s", diff)
	}
}

func TestStatementJSONRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"unknown kind", `{"kind":"implies","keys":[]}`},
		{"wrong arity", `{"kind":"equal","keys":[]}`},
		{"value_of without value", `{"kind":"value_of","keys":[{"class":"signed","pod":"00","key":"x"}]}`},
		{"bad pod class", `{"kind":"equal","keys":[{"class":"ghost","pod":"00","key":"x"},{"class":"signed","pod":"00","key":"y"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stmt Statement
			if err := json.Unmarshal([]byte(tc.data), &stmt); err == nil {
				t.Errorf("expected error for %s", tc.data)
			}
		})
	}
}
