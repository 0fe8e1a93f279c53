package export

import (
	"io"
	"strings"

	"github.com/scai-digital/cascade/internal/types"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// writeHTML emits a self-contained document with inline styles: a single
// full-width table, dark blue header row, zebra-striped body.
func writeHTML(w io.Writer, title string, rows []types.GoalRow) error {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"ru\">\n<head>\n")
	b.WriteString("  <meta charset=\"UTF-8\">\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("  <title>" + htmlEscaper.Replace(title) + "</title>\n")
	b.WriteString("  <style>\n")
	b.WriteString("    table { border-collapse: collapse; width: 100%; font-size: 14px; }\n")
	b.WriteString("    th, td { border: 1px solid #cbd5e1; padding: 0.5rem 0.75rem; text-align: left; }\n")
	b.WriteString("    th { background: #1e3a8a; color: #fff; font-weight: 600; }\n")
	b.WriteString("    tr:nth-child(even) { background: #f8fafc; }\n")
	b.WriteString("  </style>\n</head>\n<body>\n  <table>\n")

	b.WriteString("    <thead><tr>")
	for _, h := range headers() {
		b.WriteString("<th>" + htmlEscaper.Replace(h) + "</th>")
	}
	b.WriteString("</tr></thead>\n    <tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row.Cells() {
			b.WriteString("<td>" + htmlEscaper.Replace(cell) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody>\n  </table>\n</body>\n</html>\n")

	_, err := io.WriteString(w, b.String())
	return err
}
