package services

import (
	"sort"

	"github.com/purchase-mwave/quotevend-api/utils"
)

// PlanDeletes returns the data-row indices whose record matches the
// predicate, sorted descending. Indices refer to positions among the data
// rows (header excluded); DeleteSpan translates them to store row numbers.
//
// The descending order is a correctness requirement, not an optimization:
// each deletion shrinks the table, so deleting from the highest index down
// guarantees every remaining planned index still addresses the row it was
// computed from.
func PlanDeletes(records []map[string]string, match func(map[string]string) bool) []int {
	var indices []int
	for i, rec := range records {
		if match(rec) {
			indices = append(indices, i)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	return indices
}

// DeleteSpan translates a 0-based data-row index into the (start, end)
// pair expected by DeleteRows, where row 0 is the header.
func DeleteSpan(dataIndex int) (start, end int) {
	return dataIndex + 1, dataIndex + 2
}

// PlanUpdates builds a full replacement table (header plus every data row,
// changed and unchanged) with merge applied to each record the predicate
// matches. The caller applies the result with a single whole-range update,
// which sidesteps index drift entirely; rows are never patched in place.
// Cells beyond the header's width are preserved untouched.
func PlanUpdates(header []string, rows [][]string, match func(map[string]string) bool, merge func(map[string]string) map[string]string) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, header)
	records := utils.ToRecords(header, rows)
	for i, rec := range records {
		if !match(rec) {
			out = append(out, rows[i])
			continue
		}
		row := utils.ToRow(merge(rec), header)
		if extra := len(rows[i]) - len(header); extra > 0 {
			row = append(row, rows[i][len(header):]...)
		}
		out = append(out, row)
	}
	return out
}
