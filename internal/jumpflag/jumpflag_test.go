package jumpflag

import "testing"

func TestLatticeClosure(t *testing.T) {
	all := []Flag{Never, IfZero, IfNegative, IfNotPositive, IfPositive, IfNotNegative, IfNotZero, Always}
	for _, f := range all {
		if f.Not().Not() != f {
			t.Errorf("Not not involutive for %v", f)
		}
		if f.Or(f.Not()) != Always {
			t.Errorf("%v or its complement should be Always, got %v", f, f.Or(f.Not()))
		}
		if f.And(f.Not()) != Never {
			t.Errorf("%v and its complement should be Never, got %v", f, f.And(f.Not()))
		}
	}
}

func TestSignOf(t *testing.T) {
	cases := []struct {
		n    int
		want Flag
	}{
		{0, IfZero},
		{-5, IfNegative},
		{5, IfPositive},
	}
	for _, c := range cases {
		if got := SignOf(c.n); got != c.want {
			t.Errorf("SignOf(%d) = %v, want %v", c.n, got, c.want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	all := []Flag{Never, IfZero, IfNegative, IfNotPositive, IfPositive, IfNotNegative, IfNotZero, Always}
	seen := map[string]bool{}
	for _, f := range all {
		s := f.String()
		if s == "Flag(invalid)" {
			t.Errorf("%v stringified as invalid", f)
		}
		if seen[s] {
			t.Errorf("duplicate String() %q", s)
		}
		seen[s] = true
	}
}
