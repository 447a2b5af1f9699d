package quotepdf

import (
	"bytes"
	"testing"
	"time"
)

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(Summary{
		Reference:       "4F1C2A",
		BusinessName:    "Garden State Appraisals",
		CustomerName:    "José Núñez",
		CustomerEmail:   "jose@example.com",
		PropertyAddress: "18 Maple Ave, Westfield, NJ",
		Appointment:     "Thu, May 14 at 2:30 PM",
		SquareFootage:   1800,
		Lines:           []Line{{Name: "Residential Appraisal", Price: 500}},
		Subtotal:        500,
		DiscountCode:    "SAVE10",
		DiscountAmount:  50,
		Total:           450,
		Appraisal:       []Detail{{Label: "Intended use", Value: "Refinance"}},
		GeneratedAt:     time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", out[:8])
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("abc"); got != "quote-abc.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}
}
