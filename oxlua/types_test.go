package oxlua

import "testing"

func TestMapTypeNumericWidthsCollapse(t *testing.T) {
	for _, name := range []string{"i8", "i16", "i32", "i64", "isize", "u8", "u16", "u32", "u64", "usize", "f32", "f64"} {
		ty, ok := mapType(name)
		if !ok {
			t.Fatalf("%s should map", name)
		}
		if ty != TargetNumber {
			t.Fatalf("%s mapped to %s, want %s", name, ty, TargetNumber)
		}
	}
}

func TestMapTypeNonNumeric(t *testing.T) {
	if ty, ok := mapType("bool"); !ok || ty != TargetBoolean {
		t.Fatalf("bool mapped to %s, %v", ty, ok)
	}
	if ty, ok := mapType("str"); !ok || ty != TargetString {
		t.Fatalf("str mapped to %s, %v", ty, ok)
	}
	if ty, ok := mapType("String"); !ok || ty != TargetString {
		t.Fatalf("String mapped to %s, %v", ty, ok)
	}
	if ty, ok := mapType("()"); !ok || ty != TargetNone {
		t.Fatalf("unit mapped to %q, %v", ty, ok)
	}
}

func TestMapTypeUnknownRejected(t *testing.T) {
	for _, name := range []string{"Vec", "char", "u128", ""} {
		if _, ok := mapType(name); ok {
			t.Fatalf("%q should not map", name)
		}
	}
}

func TestInferTypeLiteralShapes(t *testing.T) {
	cases := []struct {
		src  string
		want TargetType
	}{
		{`fn main() { let v = 42; }`, TargetNumber},
		{`fn main() { let v = 3.14; }`, TargetNumber},
		{`fn main() { let v = -42; }`, TargetNumber},
		{`fn main() { let v = "hi"; }`, TargetString},
		{`fn main() { let v = true; }`, TargetBoolean},
		{`fn main() { let v = !done; }`, TargetBoolean},
	}
	for _, tc := range cases {
		fn := parseOne(t, tc.src)
		let := fn.Body.Statements[0].(*LetStmt)
		got, ok := inferType(let.Value)
		if !ok {
			t.Fatalf("%s: expected an inferred type", tc.src)
		}
		if got != tc.want {
			t.Fatalf("%s: inferred %s, want %s", tc.src, got, tc.want)
		}
	}
}

func TestInferTypeStopsAtCompoundExpressions(t *testing.T) {
	for _, src := range []string{
		`fn main() { let v = a + 1; }`,
		`fn main() { let v = f(); }`,
		`fn main() { let v = other; }`,
	} {
		fn := parseOne(t, src)
		let := fn.Body.Statements[0].(*LetStmt)
		if _, ok := inferType(let.Value); ok {
			t.Fatalf("%s: compound initializer should not infer", src)
		}
	}
}
