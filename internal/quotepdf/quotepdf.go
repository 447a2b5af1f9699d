// Package quotepdf renders the one-page quote summary that is attached to the
// confirmation e-mail and archived with the job.
package quotepdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 190.0

type Line struct {
	Name  string
	Price float64
}

type Detail struct {
	Label string
	Value string
}

// Summary is everything printed on the quote PDF.
type Summary struct {
	Reference       string
	BusinessName    string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	PropertyAddress string
	Appointment     string
	SquareFootage   int
	Lines           []Line
	Subtotal        float64
	DiscountCode    string
	DiscountAmount  float64
	Total           float64
	Appraisal       []Detail
	GeneratedAt     time.Time
}

// FileName is the attachment and object name for a job's quote PDF.
func FileName(reference string) string {
	return fmt.Sprintf("quote-%s.pdf", reference)
}

// Render draws the summary and returns the PDF bytes.
func Render(s Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Title bar
	pdf.SetFillColor(33, 51, 79)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pageWidth, 12, tr(s.BusinessName+" - Quote Summary"), "1", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	generated := s.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.Cell(pageWidth, 6, tr(fmt.Sprintf("Reference: %s", s.Reference)))
	pdf.Ln(5)
	pdf.Cell(pageWidth, 6, fmt.Sprintf("Generated on: %s", generated.Format("Jan 2, 2006 3:04 PM")))
	pdf.Ln(10)

	sectionHeader(pdf, "Client & Property")
	keyValue(pdf, tr, "Name", s.CustomerName)
	keyValue(pdf, tr, "Email", s.CustomerEmail)
	keyValue(pdf, tr, "Phone", s.CustomerPhone)
	keyValue(pdf, tr, "Property", s.PropertyAddress)
	if s.SquareFootage > 0 {
		keyValue(pdf, tr, "Living area", fmt.Sprintf("%d sq ft", s.SquareFootage))
	}
	keyValue(pdf, tr, "Appointment", s.Appointment)
	pdf.Ln(6)

	sectionHeader(pdf, "Services")
	pdf.SetFillColor(230, 234, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(140, 8, "Service", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Price", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range s.Lines {
		pdf.CellFormat(140, 8, tr(line.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, usd(line.Price), "1", 1, "R", false, 0, "")
	}
	pdf.CellFormat(140, 8, "Subtotal", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, usd(s.Subtotal), "1", 1, "R", false, 0, "")
	if s.DiscountCode != "" && s.DiscountAmount > 0 {
		pdf.CellFormat(140, 8, tr(fmt.Sprintf("Discount (%s)", s.DiscountCode)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, "-"+usd(s.DiscountAmount), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(140, 8, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, usd(s.Total), "1", 1, "R", true, 0, "")

	if len(s.Appraisal) > 0 {
		pdf.Ln(6)
		sectionHeader(pdf, "Appraisal Details")
		for _, d := range s.Appraisal {
			keyValue(pdf, tr, d.Label, d.Value)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(pageWidth, 9, title, "1", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func keyValue(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(145, 6, tr(value), "", "L", false)
}

func usd(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
