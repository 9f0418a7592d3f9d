package dataset

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Output formats the download endpoint accepts.
const (
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatTXT  = "txt"
	FormatXLSX = "xlsx"
)

func ValidFormat(format string) bool {
	switch format {
	case FormatCSV, FormatTSV, FormatTXT, FormatXLSX:
		return true
	}
	return false
}

// ParseTable splits delimiter-separated text into a header row and data
// rows. The first row is the header. An empty payload is a table with no
// rows, not an error; ragged rows (inconsistent column counts) are.
func ParseTable(content string, delim rune) ([]string, [][]string, error) {
	if strings.TrimSpace(content) == "" {
		return []string{}, [][]string{}, nil
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delim

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse table: %w", err)
	}
	if len(all) == 0 {
		return []string{}, [][]string{}, nil
	}

	return all[0], all[1:], nil
}

// EncodeDelimited re-serializes a table with the given output delimiter.
// Cell values pass through untouched; row and column order are preserved.
// Multi-character delimiters (txt exports) are joined verbatim without
// quoting, matching how the stored plain-text tables are written.
func EncodeDelimited(headers []string, rows [][]string, delim string) (string, error) {
	if len(headers) == 0 && len(rows) == 0 {
		return "", nil
	}

	runes := []rune(delim)
	if len(runes) == 1 {
		var sb strings.Builder
		w := csv.NewWriter(&sb)
		w.Comma = runes[0]
		if err := w.Write(headers); err != nil {
			return "", err
		}
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", err
		}
		return sb.String(), nil
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(headers, delim))
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(strings.Join(row, delim))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// EncodeWorkbook writes the table as a single-sheet xlsx workbook.
func EncodeWorkbook(headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	toAny := func(cells []string) []interface{} {
		out := make([]interface{}, len(cells))
		for i, c := range cells {
			out[i] = c
		}
		return out
	}

	if len(headers) > 0 {
		row := toAny(headers)
		if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
			return nil, err
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		vals := toAny(row)
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Convert parses stored content with its source delimiter and re-encodes
// it in the requested format. outDelim is only consulted for txt.
func Convert(content, srcDelim, format, outDelim string) (payload []byte, contentType, ext string, err error) {
	src := ','
	if runes := []rune(srcDelim); len(runes) > 0 {
		src = runes[0]
	}

	headers, rows, err := ParseTable(content, src)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to convert file: %w", err)
	}

	switch format {
	case FormatCSV:
		out, err := EncodeDelimited(headers, rows, ",")
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to convert file: %w", err)
		}
		return []byte(out), "text/csv", "csv", nil
	case FormatTSV:
		out, err := EncodeDelimited(headers, rows, "\t")
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to convert file: %w", err)
		}
		return []byte(out), "text/tab-separated-values", "tsv", nil
	case FormatTXT:
		if outDelim == "" {
			outDelim = ","
		}
		out, err := EncodeDelimited(headers, rows, outDelim)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to convert file: %w", err)
		}
		return []byte(out), "text/plain", "txt", nil
	case FormatXLSX:
		out, err := EncodeWorkbook(headers, rows)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to convert file: %w", err)
		}
		return out, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", nil
	}

	return nil, "", "", fmt.Errorf("unsupported format: %s", format)
}
