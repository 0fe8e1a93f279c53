package export

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/scai-digital/cascade/internal/types"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// docxEmptyCell replaces empty cell values so table cells never collapse.
const docxEmptyCell = "—"

// writeDOCX packages a WordprocessingML document containing one full-width
// table. The header row is marked as repeating via tblHeader; cell widths
// are expressed in fiftieths of a percent (750 = 15%).
func writeDOCX(w io.Writer, rows []types.GoalRow) error {
	var body strings.Builder

	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:tbl>`)
	body.WriteString(`<w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`</w:tblBorders></w:tblPr>`)

	body.WriteString(`<w:tr><w:trPr><w:tblHeader/></w:trPr>`)
	for _, h := range headers() {
		writeDOCXCell(&body, h, true)
	}
	body.WriteString(`</w:tr>`)

	for _, row := range rows {
		body.WriteString(`<w:tr>`)
		for _, cell := range row.Cells() {
			if cell == "" {
				cell = docxEmptyCell
			}
			writeDOCXCell(&body, cell, false)
		}
		body.WriteString(`</w:tr>`)
	}

	body.WriteString(`</w:tbl><w:sectPr/></w:body></w:document>`)

	zw := zip.NewWriter(w)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", body.String()},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := io.WriteString(f, part.content); err != nil {
			return fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize package: %w", err)
	}
	return nil
}

func writeDOCXCell(b *strings.Builder, text string, bold bool) {
	b.WriteString(`<w:tc><w:tcPr><w:tcW w:w="750" w:type="pct"/></w:tcPr><w:p><w:r>`)
	if bold {
		b.WriteString(`<w:rPr><w:b/></w:rPr>`)
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(xmlEscaper.Replace(text))
	b.WriteString(`</w:t></w:r></w:p></w:tc>`)
}
