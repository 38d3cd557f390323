// Package render — PDF renderer.
// Lays the thread out as a printable document using gofpdf: title, source
// line, then one block per post with its marker in bold.
// The core PDF fonts only cover cp1252, so symbols outside it print as a bullet.
package render

import (
	"bytes"
	"fmt"
	"unicode"

	"github.com/gaurav-prasanna/threadpipe/core"
	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders a thread as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the thread into PDF bytes.
func (r *PDFRenderer) Render(thread core.Thread, meta core.ThreadMeta) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(meta.Title), "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr("Source: "+meta.URL), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	for _, p := range thread {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s %s", pdfSymbol(p.Symbol), p.Marker())), "", 1, "L", false, 0, "")
		style := ""
		if p.IsHook {
			style = "I"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.MultiCell(0, 5.5, tr(p.Body), "", "L", false)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// pdfSymbol keeps symbols the core fonts can draw and swaps the rest for a bullet.
func pdfSymbol(s string) string {
	for _, r := range s {
		if r > unicode.MaxLatin1 {
			return "•"
		}
	}
	return s
}
