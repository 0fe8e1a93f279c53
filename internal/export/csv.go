package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/scai-digital/cascade/internal/types"
)

// writeCSV emits a UTF-8 BOM, then header and data lines joined by CRLF
// with no trailing newline. A cell is quoted only when it contains a comma,
// a double quote, or a newline; embedded quotes are doubled.
func writeCSV(w io.Writer, rows []types.GoalRow) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("\uFEFF"); err != nil {
		return err
	}
	writeLine := func(cells []string, first bool) error {
		if !first {
			if _, err := bw.WriteString("\r\n"); err != nil {
				return err
			}
		}
		for i, cell := range cells {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(escapeCSV(cell)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := writeLine(headers(), true); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeLine(row.Cells(), false); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func escapeCSV(cell string) string {
	escaped := strings.ReplaceAll(cell, `"`, `""`)
	if strings.ContainsAny(escaped, ",\"\n") {
		return `"` + escaped + `"`
	}
	return escaped
}
