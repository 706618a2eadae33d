package dataprocessing

import "strings"

// Row is one raw input row: a mapping from the upstream header name to a
// scalar cell value (string, number, or spreadsheet serial).
type Row map[string]any

// Resolve returns the value of the first row key whose trimmed,
// case-insensitive form matches one of the candidate header names, trying
// candidates in the caller-supplied priority order. Returns nil when no key
// matches. Upstream spreadsheets and CSV exports vary header casing, spacing
// and language across snapshots; this lookup absorbs that drift.
func Resolve(row Row, candidates ...string) any {
	for _, candidate := range candidates {
		want := canonicalHeader(candidate)
		for key, value := range row {
			if canonicalHeader(key) == want {
				return value
			}
		}
	}
	return nil
}

func canonicalHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ZipRow pairs a header slice with one data row into a Row. Short rows leave
// trailing columns absent; extra cells beyond the header width are dropped.
func ZipRow(headers []string, cells []any) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		if i >= len(cells) {
			break
		}
		row[h] = cells[i]
	}
	return row
}
