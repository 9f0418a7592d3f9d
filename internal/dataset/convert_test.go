package dataset

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseTable(t *testing.T) {
	headers, rows, err := ParseTable("a,b\n1,2\n3,4", ',')
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if !reflect.DeepEqual(headers, []string{"a", "b"}) {
		t.Errorf("headers = %v", headers)
	}
	if !reflect.DeepEqual(rows, [][]string{{"1", "2"}, {"3", "4"}}) {
		t.Errorf("rows = %v", rows)
	}
}

func TestParseTableTabDelimited(t *testing.T) {
	headers, rows, err := ParseTable("x\ty\n1\t2", '\t')
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if !reflect.DeepEqual(headers, []string{"x", "y"}) {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 1 || rows[0][1] != "2" {
		t.Errorf("rows = %v", rows)
	}
}

func TestParseTableEmptyContent(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\n"} {
		headers, rows, err := ParseTable(content, ',')
		if err != nil {
			t.Fatalf("ParseTable(%q): %v", content, err)
		}
		if len(headers) != 0 || len(rows) != 0 {
			t.Errorf("ParseTable(%q) = %v, %v; want empty table", content, headers, rows)
		}
	}
}

func TestParseTableRaggedRows(t *testing.T) {
	_, _, err := ParseTable("a,b\n1,2,3", ',')
	if err == nil {
		t.Fatal("expected error for ragged rows")
	}
	if !strings.Contains(err.Error(), "failed to parse table") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestParseTableQuotedCells(t *testing.T) {
	headers, rows, err := ParseTable("name,note\nfoo,\"a, quoted cell\"", ',')
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if headers[1] != "note" || rows[0][1] != "a, quoted cell" {
		t.Errorf("quoted cell mishandled: %v %v", headers, rows)
	}
}

func TestEncodeDelimitedRoundTrip(t *testing.T) {
	headers := []string{"potential", "current"}
	rows := [][]string{{"0.1", "1.5e-6"}, {"0.2", "2.1e-6"}}

	out, err := EncodeDelimited(headers, rows, ";")
	if err != nil {
		t.Fatalf("EncodeDelimited: %v", err)
	}

	h2, r2, err := ParseTable(out, ';')
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if !reflect.DeepEqual(h2, headers) || !reflect.DeepEqual(r2, rows) {
		t.Errorf("round trip changed table: %v %v", h2, r2)
	}
}

func TestEncodeDelimitedMultiCharDelimiter(t *testing.T) {
	out, err := EncodeDelimited([]string{"a", "b"}, [][]string{{"1", "2"}}, " | ")
	if err != nil {
		t.Fatalf("EncodeDelimited: %v", err)
	}
	if out != "a | b\n1 | 2\n" {
		t.Errorf("out = %q", out)
	}
}

func TestEncodeDelimitedEmptyTable(t *testing.T) {
	out, err := EncodeDelimited([]string{}, [][]string{}, ",")
	if err != nil {
		t.Fatalf("EncodeDelimited: %v", err)
	}
	if out != "" {
		t.Errorf("out = %q, want empty", out)
	}
}

func TestConvertCSVToTSV(t *testing.T) {
	payload, contentType, ext, err := Convert("a,b\n1,2\n3,4", ",", FormatTSV, "\t")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if string(payload) != "a\tb\n1\t2\n3\t4\n" {
		t.Errorf("payload = %q", payload)
	}
	if contentType != "text/tab-separated-values" {
		t.Errorf("contentType = %q", contentType)
	}
	if ext != "tsv" {
		t.Errorf("ext = %q", ext)
	}
}

func TestConvertContentPreserved(t *testing.T) {
	src := "col_a,col_b\nx,y\n"
	payload, contentType, ext, err := Convert(src, ",", FormatCSV, ",")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if string(payload) != src {
		t.Errorf("payload = %q, want %q", payload, src)
	}
	if contentType != "text/csv" || ext != "csv" {
		t.Errorf("contentType/ext = %q/%q", contentType, ext)
	}
}

func TestConvertTXTUsesRequestedDelimiter(t *testing.T) {
	payload, contentType, ext, err := Convert("a,b\n1,2", ",", FormatTXT, "||")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if string(payload) != "a||b\n1||2\n" {
		t.Errorf("payload = %q", payload)
	}
	if contentType != "text/plain" || ext != "txt" {
		t.Errorf("contentType/ext = %q/%q", contentType, ext)
	}
}

func TestConvertXLSX(t *testing.T) {
	payload, contentType, ext, err := Convert("a,b\n1,2\n3,4", ",", FormatXLSX, "")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if contentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("contentType = %q", contentType)
	}
	if ext != "xlsx" {
		t.Errorf("ext = %q", ext)
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	cells, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	want := [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}}
	if !reflect.DeepEqual(cells, want) {
		t.Errorf("sheet = %v, want %v", cells, want)
	}
}

func TestConvertBadSource(t *testing.T) {
	_, _, _, err := Convert("a,b\n1,2,3", ",", FormatCSV, ",")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed to convert file") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{FormatCSV, FormatTSV, FormatTXT, FormatXLSX} {
		if !ValidFormat(f) {
			t.Errorf("%q should be valid", f)
		}
	}
	for _, f := range []string{"", "pdf", "CSV", "json"} {
		if ValidFormat(f) {
			t.Errorf("%q should be invalid", f)
		}
	}
}
