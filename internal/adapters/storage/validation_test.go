package storage

import "testing"

func TestValidateContentType(t *testing.T) {
	if err := ValidateContentType("application/pdf"); err != nil {
		t.Fatalf("pdf should be allowed: %v", err)
	}
	if err := ValidateContentType("Application/PDF; charset=binary"); err != nil {
		t.Fatalf("parameters and case should be ignored: %v", err)
	}
	if err := ValidateContentType("text/html"); err == nil {
		t.Fatal("expected html to be rejected")
	}
}

func TestValidateFileSize(t *testing.T) {
	if err := validateFileSize(0, 100); err == nil {
		t.Fatal("expected empty file to be rejected")
	}
	if err := validateFileSize(101, 100); err == nil {
		t.Fatal("expected oversized file to be rejected")
	}
	if err := validateFileSize(50, 0); err != nil {
		t.Fatalf("no limit should accept: %v", err)
	}
}

func TestObjectKey(t *testing.T) {
	if got := ObjectKey("jobs/42", "../quote.pdf"); got != "jobs/42/quote.pdf" {
		t.Fatalf("unexpected key %q", got)
	}
}
