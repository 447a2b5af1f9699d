package domain

import "testing"

func TestPercentageDiscount(t *testing.T) {
	if got := Amount(TypePercentage, 10, 500); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
	if got := Amount(TypePercentage, 15, 333); got != 50 {
		t.Fatalf("expected round(49.95)=50, got %v", got)
	}
}

func TestPercentageNeverExceedsSubtotal(t *testing.T) {
	for p := 0.0; p <= 100; p += 2.5 {
		for _, sub := range []float64{0, 1, 99, 450, 1275} {
			got := Amount(TypePercentage, p, sub)
			if got < 0 || got > sub {
				t.Fatalf("Amount(%v%%, %v) = %v out of range", p, sub, got)
			}
		}
	}
}

func TestFixedDiscountIsCapped(t *testing.T) {
	cases := []struct {
		value, subtotal, want float64
	}{
		{75, 500, 75},
		{600, 500, 500},
		{500, 500, 500},
		{25, 0, 0},
		{-10, 500, 0},
	}
	for _, tc := range cases {
		if got := Amount(TypeFixed, tc.value, tc.subtotal); got != tc.want {
			t.Errorf("Amount(fixed %v, %v) = %v, want %v", tc.value, tc.subtotal, got, tc.want)
		}
	}
}

func TestUnknownTypeGivesNothing(t *testing.T) {
	if got := Amount(Type("bogo"), 50, 500); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  save10 "); got != "SAVE10" {
		t.Fatalf("expected SAVE10, got %q", got)
	}
}
