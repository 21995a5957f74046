package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets and invoice documents into PDF bytes.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			value := row[header]
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// InvoiceLine is a single billed item on an invoice document.
type InvoiceLine struct {
	Description string
	Quantity    int
	UnitPrice   float64
	Amount      float64
}

// InvoiceDocument carries everything needed to render a printable invoice.
type InvoiceDocument struct {
	HotelName string
	Number    string
	GuestName string
	IssuedAt  time.Time
	DueAt     *time.Time
	Status    string
	Lines     []InvoiceLine
	Total     float64
}

// RenderInvoice produces the printable invoice handed to guests.
func (e *PDFExporter) RenderInvoice(doc InvoiceDocument) ([]byte, error) {
	if doc.Number == "" {
		return nil, fmt.Errorf("invoice number required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, doc.HotelName, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Invoice %s", doc.Number), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Issued %s", doc.IssuedAt.Format("2006-01-02")), "", 1, "L", false, 0, "")
	if doc.DueAt != nil {
		pdf.CellFormat(0, 7, fmt.Sprintf("Due %s", doc.DueAt.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 7, fmt.Sprintf("Billed to: %s", doc.GuestName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Status: %s", strings.ToUpper(doc.Status)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	widths := []float64{90, 20, 35, 35}
	headers := []string{"Description", "Qty", "Unit price", "Amount"}
	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, line := range doc.Lines {
		pdf.CellFormat(widths[0], 7, line.Description, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%.2f", line.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 9, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 9, fmt.Sprintf("%.2f", doc.Total), "1", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
