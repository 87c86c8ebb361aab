package types

import "testing"

func TestStatementString(t *testing.T) {
	x := At("X", "x")
	y := At("Y", "y")
	s := At("S", "sum")

	cases := []struct {
		stmt Statement
		want string
	}{
		{ValueOf(x, Int(25)), "x = 25"},
		{Equal(x, y), "x = y"},
		{NotEqual(x, y), "x ≠ y"},
		{Gt(x, y), "x > y"},
		{Lt(x, y), "x < y"},
		{Contains(x, y), "x contains y"},
		{NotContains(x, y), "x does not contain y"},
		{SumOf(s, x, y), "sum = x + y"},
		{ProductOf(s, x, y), "sum = x × y"},
		{MaxOf(s, x, y), "sum = max(x, y)"},
	}
	for _, tc := range cases {
		if got := tc.stmt.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestStatementEquals(t *testing.T) {
	x := At("X", "x")
	y := At("Y", "y")

	if !Equal(x, y).Equals(Equal(x, y)) {
		t.Error("identical statements should be equal")
	}
	if Equal(x, y).Equals(Equal(y, x)) {
		t.Error("statements are directional")
	}
	if Equal(x, y).Equals(NotEqual(x, y)) {
		t.Error("kinds must match")
	}
	if !ValueOf(x, Int(5)).Equals(ValueOf(x, Int(5))) {
		t.Error("value statements with equal values should be equal")
	}
	if ValueOf(x, Int(5)).Equals(ValueOf(x, Int(6))) {
		t.Error("value statements with differing values should differ")
	}
	if ValueOf(x, Set{Int(1), Int(2)}).Equals(ValueOf(x, Set{Int(2), Int(1)})) != true {
		t.Error("set values compare order-insensitively")
	}
}

func TestParseStatementKind(t *testing.T) {
	for kind, name := range kindNames {
		parsed, err := ParseStatementKind(name)
		if err != nil {
			t.Fatalf("ParseStatementKind(%q): %v", name, err)
		}
		if parsed != kind {
			t.Errorf("ParseStatementKind(%q) = %v, want %v", name, parsed, kind)
		}
	}
	if _, err := ParseStatementKind("unknown"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestAnchoredKeyIdentity(t *testing.T) {
	if At("X", "value") != At("X", "value") {
		t.Error("same pod and key should produce identical anchored keys")
	}
	if At("X", "value") == At("Y", "value") {
		t.Error("different pods should produce distinct origins")
	}
	if SignedOrigin("X") == MainOrigin("X") {
		t.Error("pod class should distinguish origins")
	}
}
