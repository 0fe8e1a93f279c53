package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/scai-digital/cascade/internal/types"
)

func sampleRows() []types.GoalRow {
	return []types.GoalRow{
		{
			ID:          "row-1",
			LastName:    "Иванов И.И.",
			Goal:        "Рост, прибыль",
			MetricGoals: `Метрика "чистая"`,
			WeightQ:     "20%",
			WeightYear:  "20%",
			Q1:          "24,1",
			Q2:          "58,3",
			Q3:          "112,1",
			Q4:          "205,3",
			Year:        "205,3",
		},
		{
			ID:       "row-2",
			LastName: "Петров П.П.",
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(string(f))
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", f, err)
		}
		if got != f {
			t.Errorf("ParseFormat(%q) = %q", f, got)
		}
	}
	if _, err := ParseFormat("txt"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(txt) err = %v, want ErrUnknownFormat", err)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("ппр", FormatCSV); got != "ппр.csv" {
		t.Errorf("Filename = %q", got)
	}
	if got := Filename("кпэ", FormatXLSX); got != "кпэ.xlsx" {
		t.Errorf("Filename = %q", got)
	}
}

func TestContentType_NoOctetStreamForSupported(t *testing.T) {
	for _, f := range Formats() {
		if ct := f.ContentType(); ct == "application/octet-stream" {
			t.Errorf("%s has no content type", f)
		}
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := New(nil).Export(context.Background(), &buf, "ппр", sampleRows(), FormatCSV); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "\uFEFF") {
		t.Error("missing UTF-8 BOM")
	}
	if strings.HasSuffix(out, "\r\n") {
		t.Error("unexpected trailing CRLF")
	}

	lines := strings.Split(strings.TrimPrefix(out, "\uFEFF"), "\r\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(lines))
	}
	if lines[0] != "ФИО,SCAI Цель,Метрические цели,вес квартал,вес год,1 квартал,2 квартал,3 квартал,4 квартал,Год" {
		t.Errorf("header line = %q", lines[0])
	}
	// Comma forces quoting, embedded quotes are doubled.
	if !strings.Contains(lines[1], `"Рост, прибыль"`) {
		t.Errorf("comma cell not quoted: %q", lines[1])
	}
	if !strings.Contains(lines[1], `"Метрика ""чистая"""`) {
		t.Errorf("quote cell not doubled: %q", lines[1])
	}
	// Plain cells stay unquoted.
	if !strings.HasPrefix(lines[1], "Иванов И.И.,") {
		t.Errorf("plain cell quoted: %q", lines[1])
	}
	if lines[2] != "Петров П.П.,,,,,,,,," {
		t.Errorf("sparse row = %q", lines[2])
	}
}

func TestExportHTML(t *testing.T) {
	rows := sampleRows()
	rows[0].Goal = `<script>"x" & y</script>`

	var buf bytes.Buffer
	if err := New(nil).Export(context.Background(), &buf, "ппр", rows, FormatHTML); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Error("missing doctype")
	}
	if !strings.Contains(out, "<title>ппр</title>") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "<th>ФИО</th>") {
		t.Error("missing header cell")
	}
	if strings.Contains(out, "<script>") {
		t.Error("cell content not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;&quot;x&quot; &amp; y&lt;/script&gt;") {
		t.Error("escaped cell content missing")
	}
	if !strings.Contains(out, "tr:nth-child(even)") {
		t.Error("missing zebra striping style")
	}
}

func TestExportXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := New(nil).Export(context.Background(), &buf, "кпэ", sampleRows(), FormatXLSX); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != "кпэ" {
		t.Errorf("sheet name = %q", got)
	}
	a1, err := f.GetCellValue("кпэ", "A1")
	if err != nil {
		t.Fatalf("read A1: %v", err)
	}
	if a1 != "ФИО" {
		t.Errorf("A1 = %q, want header label", a1)
	}
	c2, err := f.GetCellValue("кпэ", "C2")
	if err != nil {
		t.Fatalf("read C2: %v", err)
	}
	if c2 != `Метрика "чистая"` {
		t.Errorf("C2 = %q", c2)
	}
	j3, err := f.GetCellValue("кпэ", "J3")
	if err != nil {
		t.Fatalf("read J3: %v", err)
	}
	if j3 != "" {
		t.Errorf("J3 = %q, want empty", j3)
	}
}

func TestExportDOCX(t *testing.T) {
	var buf bytes.Buffer
	if err := New(nil).Export(context.Background(), &buf, "ппр", sampleRows(), FormatDOCX); err != nil {
		t.Fatalf("Export: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open package: %v", err)
	}

	parts := map[string]bool{}
	for _, f := range zr.File {
		parts[f.Name] = true
	}
	for _, want := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		if !parts[want] {
			t.Errorf("missing package part %s", want)
		}
	}

	doc := readZipPart(t, zr, "word/document.xml")
	if !strings.Contains(doc, "<w:tblHeader/>") {
		t.Error("header row not marked repeating")
	}
	if !strings.Contains(doc, "<w:b/>") {
		t.Error("header cells not bold")
	}
	if !strings.Contains(doc, ">ФИО<") {
		t.Error("missing header label")
	}
	// The sparse second row renders empty cells as an em dash.
	if !strings.Contains(doc, ">—<") {
		t.Error("empty cells not replaced with placeholder")
	}
	if !strings.Contains(doc, "Метрика &quot;чистая&quot;") {
		t.Error("cell content not XML-escaped")
	}
}

func readZipPart(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		var b bytes.Buffer
		if _, err := b.ReadFrom(rc); err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return b.String()
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestExportPDF_CoreFontFallback(t *testing.T) {
	var buf bytes.Buffer
	// No font sources configured: the renderer falls back to a core font.
	if err := New(nil).Export(context.Background(), &buf, "ппр", sampleRows(), FormatPDF); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("output is not a PDF document")
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := New(nil).Export(context.Background(), &buf, "ппр", nil, Format("txt"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestLoadFont_FileThenURLFallback(t *testing.T) {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "font.ttf")
	if err := os.WriteFile(fontPath, []byte("local-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote-bytes"))
	}))
	defer srv.Close()

	t.Run("first source wins", func(t *testing.T) {
		e := New([]string{fontPath, srv.URL})
		data, err := e.loadFont(context.Background())
		if err != nil {
			t.Fatalf("loadFont: %v", err)
		}
		if string(data) != "local-bytes" {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("missing file falls through to URL", func(t *testing.T) {
		e := New([]string{filepath.Join(dir, "absent.ttf"), srv.URL})
		data, err := e.loadFont(context.Background())
		if err != nil {
			t.Fatalf("loadFont: %v", err)
		}
		if string(data) != "remote-bytes" {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("all sources failing is an error", func(t *testing.T) {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer bad.Close()

		e := New([]string{filepath.Join(dir, "absent.ttf"), bad.URL})
		if _, err := e.loadFont(context.Background()); err == nil {
			t.Error("expected an error")
		}
	})
}
