package export

import (
	"context"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/scai-digital/cascade/internal/types"
)

const pdfFontName = "Roboto"

// writePDF renders a landscape A4 table. A Unicode font is loaded from the
// configured fallback sources so Cyrillic content renders correctly; when
// every source fails the export falls back to the built-in Helvetica rather
// than failing.
func (e *Exporter) writePDF(ctx context.Context, w io.Writer, rows []types.GoalRow) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)

	fontName := "Helvetica"
	if data, err := e.loadFont(ctx); err == nil {
		pdf.AddUTF8FontFromBytes(pdfFontName, "", data)
		pdf.AddUTF8FontFromBytes(pdfFontName, "B", data)
		fontName = pdfFontName
	}

	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(types.ExportColumns))
	const rowH = 6.0

	pdf.SetFont(fontName, "B", 8)
	pdf.SetFillColor(30, 58, 138)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range headers() {
		pdf.CellFormat(colW, rowH, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(rowH)

	pdf.SetFont(fontName, "", 8)
	pdf.SetTextColor(0, 0, 0)
	for i, row := range rows {
		fill := i%2 == 1
		pdf.SetFillColor(248, 250, 252)
		for _, cell := range row.Cells() {
			pdf.CellFormat(colW, rowH, cell, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(rowH)
	}

	return pdf.Output(w)
}
