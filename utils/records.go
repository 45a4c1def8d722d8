package utils

import (
	"strconv"
	"strings"
)

// ToRecords zips each data row against the header row. Missing trailing
// cells project to an empty string so every header key is always present;
// callers rely on empty-string defaults instead of checking for absent keys.
func ToRecords(header []string, rows [][]string) []map[string]string {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(row) {
				record[key] = row[i]
			} else {
				record[key] = ""
			}
		}
		records = append(records, record)
	}
	return records
}

// ToRow is the inverse of ToRecords for a single record: fields not present
// in columnOrder are dropped, columns with no matching field become "".
func ToRow(record map[string]string, columnOrder []string) []string {
	row := make([]string, len(columnOrder))
	for i, key := range columnOrder {
		row[i] = record[key]
	}
	return row
}

// Normalize prepares a cell value for comparison: the leading apostrophe
// used as a formula escape is stripped, then the value is trimmed and
// lower-cased.
func Normalize(v string) string {
	v = strings.TrimPrefix(v, "'")
	return strings.ToLower(strings.TrimSpace(v))
}

// Sanitize escapes values the store would otherwise interpret as formulas.
// Any value whose trimmed form starts with '=' or '+' gets a leading
// apostrophe. This must be applied to every free-text field before writing.
func Sanitize(v string) string {
	trimmed := strings.TrimSpace(v)
	if strings.HasPrefix(trimmed, "=") || strings.HasPrefix(trimmed, "+") {
		return "'" + v
	}
	return v
}

// Stringify renders a JSON-decoded scalar the way it should appear in a
// cell: numbers without a trailing ".0", nil as the empty string.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// ParseRev interprets a rev cell: the empty cell means revision 0 by
// convention, anything else must parse as a non-negative integer.
func ParseRev(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, true
	}
	n, err := strconv.Atoi(cell)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// RevCell is the inverse of ParseRev: revision 0 is stored as an empty cell
func RevCell(rev int) string {
	if rev == 0 {
		return ""
	}
	return strconv.Itoa(rev)
}
