package oxlua

import "testing"

func format(t *testing.T, src string) string {
	t.Helper()
	out, err := Format(src)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	return out
}

func TestFormatNormalizesSpacing(t *testing.T) {
	got := format(t, "fn   add( a:i32 ,b :i32 )->i32{a+b}")
	want := `fn add(a: i32, b: i32) -> i32 {
  a + b
}
`
	if got != want {
		t.Fatalf("format mismatch\n--- want ---\n%s\n--- got ---\n%s", want, got)
	}
}

func TestFormatStatements(t *testing.T) {
	got := format(t, `fn main(){let mut n:i32=0;while n<3{n=n+1;}for i in 0..2{print(i);}loop{break;}}`)
	want := `fn main() {
  let mut n: i32 = 0;
  while n < 3 {
    n = n + 1;
  }
  for i in 0..2 {
    print(i);
  }
  loop {
    break;
  }
}
`
	if got != want {
		t.Fatalf("format mismatch\n--- want ---\n%s\n--- got ---\n%s", want, got)
	}
}

func TestFormatMatchArms(t *testing.T) {
	got := format(t, `fn f(n:i32)->i32{match n{0=>1,other=>other*2,}}`)
	want := `fn f(n: i32) -> i32 {
  match n {
    0 => 1,
    other => other * 2,
  }
}
`
	if got != want {
		t.Fatalf("format mismatch\n--- want ---\n%s\n--- got ---\n%s", want, got)
	}
}

func TestFormatPreservesNecessaryParens(t *testing.T) {
	got := format(t, `fn main(){let a=(1+2)*3;let b=1+2*3;let c=x-(y-z);}`)
	want := `fn main() {
  let a = (1 + 2) * 3;
  let b = 1 + 2 * 3;
  let c = x - (y - z);
}
`
	if got != want {
		t.Fatalf("format mismatch\n--- want ---\n%s\n--- got ---\n%s", want, got)
	}
}

func TestFormatEmptyBlock(t *testing.T) {
	got := format(t, `fn noop(){}`)
	if got != "fn noop() {}\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

var roundTripCorpus = []string{
	`fn add(a: i32, b: i32) -> i32 { a + b }`,
	`fn main() { let x = if n > 0 { 1 } else { 0 }; print(x); }`,
	`fn f(x: i32) -> i32 { if x > 89 { 4 } else if x > 79 { 3 } else { 0 } }`,
	`fn main() { for i in 0..10 { sum = sum + i; } }`,
	`fn main() { while !done { step(); } }`,
	`fn main() { loop { if ready() { break; } } }`,
	`fn classify(n: i32) -> str {
		match n {
			0 => "zero",
			1 => "one",
			other => describe(other),
		}
	}`,
	`fn main() {
		match code {
			200 => { log("ok"); },
			_ => { log("fail"); },
		}
	}`,
	`fn f() -> i32 { let v = { let y = 2; y * 3 }; v }`,
	`fn main() { let s = "tab\there \"quoted\"\nnext"; }`,
	`fn main() { let mut acc = 0.5; acc = acc * -2.0; }`,
	`fn sign(n: i32) -> i32 {
		match n {
			-1 => 0,
			_ => 1,
		}
	}`,
	`fn main() { let v = a != b && !c || d % 2 == 0; }`,
	`fn early(x: i32) -> i32 { if x < 0 { return 0; } x }`,
}

// Formatting is idempotent: once a unit is in canonical form, formatting it
// again changes nothing. This also pins down that the printed form parses
// back to a structurally identical unit.
func TestFormatRoundTrip(t *testing.T) {
	for _, src := range roundTripCorpus {
		once := format(t, src)
		twice := format(t, once)
		if once != twice {
			t.Fatalf("format not idempotent for %q\n--- once ---\n%s\n--- twice ---\n%s", src, once, twice)
		}
	}
}

// The formatter must never change what the unit compiles to.
func TestFormatPreservesGeneratedOutput(t *testing.T) {
	for _, src := range roundTripCorpus {
		before, err := Transpile(src)
		if err != nil {
			t.Fatalf("transpile failed for %q: %v", src, err)
		}
		after, err := Transpile(format(t, src))
		if err != nil {
			t.Fatalf("transpile of formatted source failed for %q: %v", src, err)
		}
		if before != after {
			t.Fatalf("formatting changed output for %q\n--- before ---\n%s\n--- after ---\n%s", src, before, after)
		}
	}
}

func TestFormatRejectsInvalidSource(t *testing.T) {
	if _, err := Format(`fn main() { let = 1; }`); err == nil {
		t.Fatalf("expected parse error")
	}
}
