package catalog

import "testing"

func TestDefaultCatalogKinds(t *testing.T) {
	c := Default()

	cases := map[string]Kind{
		"basic-photography":        KindPackage,
		"premium-package":          KindPackage,
		"professional-photography": KindIndividual,
		"drone-photography":        KindIndividual,
		AppraisalID:                KindAppraisal,
	}
	for id, want := range cases {
		if got := c.KindOf(id); got != want {
			t.Errorf("KindOf(%q) = %q, want %q", id, got, want)
		}
	}
	if c.KindOf("unknown") != "" {
		t.Fatal("expected empty kind for unknown service")
	}
}

func TestDefaultCatalogHasNoStaticAppraisalPrice(t *testing.T) {
	c := Default()
	if _, ok := c.StaticPrice(AppraisalID, "1500_to_2500"); ok {
		t.Fatal("appraisal must be priced by band, not by the static table")
	}
	price, ok := c.StaticPrice("basic-photography", "under_1500")
	if !ok || price != 150 {
		t.Fatalf("expected basic-photography under_1500 = 150, got %v (%v)", price, ok)
	}
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	data := []byte(`
services:
  - { id: a, name: A, kind: package }
  - { id: a, name: A2, kind: individual }
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestParseRejectsUnknownKind(t *testing.T) {
	data := []byte(`
services:
  - { id: a, name: A, kind: bundle }
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected unknown kind error")
	}
}

func TestNameFallsBackToID(t *testing.T) {
	c := Default()
	if got := c.Name("mystery"); got != "mystery" {
		t.Fatalf("expected id fallback, got %q", got)
	}
	if got := c.Name("floor-plan"); got != "2D Floor Plan" {
		t.Fatalf("unexpected name %q", got)
	}
}
