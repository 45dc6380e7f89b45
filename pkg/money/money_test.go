package money

import "testing"

func TestFromDollars(t *testing.T) {
	t.Parallel()

	cases := []struct {
		dollars float64
		cents   int64
	}{
		{0, 0},
		{42.00, 4200},
		{5.99, 599},
		{19.999, 2000},
		{0.015, 2},
	}
	for _, tc := range cases {
		if got := FromDollars(tc.dollars); got != tc.cents {
			t.Fatalf("FromDollars(%v) = %d, want %d", tc.dollars, got, tc.cents)
		}
	}
}

func TestApplyRate(t *testing.T) {
	t.Parallel()

	if got := ApplyRate(4200, 0.08); got != 336 {
		t.Fatalf("ApplyRate(4200, 0.08) = %d, want 336", got)
	}
	if got := ApplyRate(0, 0.08); got != 0 {
		t.Fatalf("ApplyRate(0, 0.08) = %d, want 0", got)
	}
	if got := ApplyRate(1050, 0.08); got != 84 {
		t.Fatalf("ApplyRate(1050, 0.08) = %d, want 84", got)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{599, "$5.99"},
		{5135, "$51.35"},
		{-1050, "-$10.50"},
	}
	for _, tc := range cases {
		if got := Format(tc.cents); got != tc.want {
			t.Fatalf("Format(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
