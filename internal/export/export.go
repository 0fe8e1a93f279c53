// Package export renders a table of rows into downloadable file formats.
// Every format shares the same fixed header set and row-to-cell mapping;
// only the container differs.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/scai-digital/cascade/internal/types"
)

// Format identifies one of the supported output formats.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
)

// ErrUnknownFormat is returned for a format outside the supported set.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported formats in menu order.
func Formats() []Format {
	return []Format{FormatCSV, FormatXLSX, FormatPDF, FormatDOCX, FormatHTML}
}

// ParseFormat validates a raw format string.
func ParseFormat(raw string) (Format, error) {
	f := Format(raw)
	switch f {
	case FormatCSV, FormatXLSX, FormatPDF, FormatDOCX, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

// ContentType returns the MIME type served with the exported file.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Filename joins the table's filename prefix with the format extension.
func Filename(prefix string, f Format) string {
	return prefix + "." + string(f)
}

// headers returns the fixed export header labels in column order.
func headers() []string {
	out := make([]string, len(types.ExportColumns))
	for i, col := range types.ExportColumns {
		out[i] = col.Label
	}
	return out
}

// Exporter renders row sets. The font sources feed the PDF renderer; the
// other formats need no configuration.
type Exporter struct {
	fontSources []string
	httpClient  *http.Client
}

// New creates an Exporter. fontSources is an ordered list of TTF locations,
// each either a local file path or an http(s) URL, tried in order when
// rendering PDF.
func New(fontSources []string) *Exporter {
	return &Exporter{
		fontSources: fontSources,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Export writes rows to w in the requested format. prefix names the sheet
// and document title where the format has one.
func (e *Exporter) Export(ctx context.Context, w io.Writer, prefix string, rows []types.GoalRow, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatXLSX:
		return writeXLSX(w, prefix, rows)
	case FormatPDF:
		return e.writePDF(ctx, w, rows)
	case FormatDOCX:
		return writeDOCX(w, rows)
	case FormatHTML:
		return writeHTML(w, prefix, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
