package domain

import "testing"

func TestTierForBoundaries(t *testing.T) {
	cases := []struct {
		sqft int
		want Tier
	}{
		{0, TierUnder1500},
		{1499, TierUnder1500},
		{1500, Tier1500To2500},
		{1800, Tier1500To2500},
		{2500, Tier1500To2500},
		{2501, TierOver2500},
		{9000, TierOver2500},
	}
	for _, tc := range cases {
		if got := TierFor(tc.sqft); got != tc.want {
			t.Errorf("TierFor(%d) = %s, want %s", tc.sqft, got, tc.want)
		}
	}
}

func TestTierForIsTotal(t *testing.T) {
	for sqft := -10; sqft <= 6000; sqft += 7 {
		if _, ok := ParseTier(string(TierFor(sqft))); !ok {
			t.Fatalf("TierFor(%d) returned unknown tier", sqft)
		}
	}
}

func TestResolveSquareFootagePrefersPropertyData(t *testing.T) {
	sqft, src := ResolveSquareFootage(2200, "1200")
	if sqft != 2200 || src != SourceProperty {
		t.Fatalf("expected 2200 from property, got %d from %s", sqft, src)
	}
}

func TestResolveSquareFootageFallsBackToUserEntry(t *testing.T) {
	sqft, src := ResolveSquareFootage(0, "1200")
	if sqft != 1200 || src != SourceUser {
		t.Fatalf("expected 1200 from user, got %d from %s", sqft, src)
	}
	if TierFor(sqft) != TierUnder1500 {
		t.Fatalf("expected under_1500 for user entry, got %s", TierFor(sqft))
	}
}

func TestResolveSquareFootageIgnoresTinyFigures(t *testing.T) {
	sqft, src := ResolveSquareFootage(150, "199")
	if sqft != DefaultSquareFootage || src != SourceDefault {
		t.Fatalf("expected default, got %d from %s", sqft, src)
	}
	if TierFor(sqft) != Tier1500To2500 {
		t.Fatalf("default must land in the middle tier")
	}
}

func TestParseSquareFootage(t *testing.T) {
	cases := map[string]int{
		"1850":       1850,
		" 1,850 ":    1850,
		"1850 sq ft": 1850,
		"1850sqft":   1850,
		"1850.6":     1850,
	}
	for in, want := range cases {
		got, ok := ParseSquareFootage(in)
		if !ok || got != want {
			t.Errorf("ParseSquareFootage(%q) = %d, %v; want %d", in, got, ok, want)
		}
	}
	for _, bad := range []string{"", "abc", "-5", "0", "1e300", "99999999999999999999", "2,000,000"} {
		if _, ok := ParseSquareFootage(bad); ok {
			t.Errorf("ParseSquareFootage(%q) should fail", bad)
		}
	}
}

func TestAppraisalBandPrice(t *testing.T) {
	cases := []struct {
		sqft int
		want float64
	}{
		{1999, 450},
		{2000, 500},
		{2999, 500},
		{3000, 550},
		{3999, 550},
		{4000, 600},
	}
	for _, tc := range cases {
		if got := AppraisalBandPrice(tc.sqft); got != tc.want {
			t.Errorf("AppraisalBandPrice(%d) = %v, want %v", tc.sqft, got, tc.want)
		}
	}
}
