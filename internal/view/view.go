// Package view derives the filtered, sorted, paginated projection of a row
// store for display. Derivation is a pure function of (rows, query) and is
// re-run on every input change.
package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/scai-digital/cascade/internal/types"
)

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Query captures the caller-controlled projection inputs. A zero Query
// passes every row, applies no sort, and selects page 1.
type Query struct {
	// NameFilter and GoalFilter are case-insensitive substring filters over
	// the owner name and goal text columns. Both must match (AND).
	NameFilter string
	GoalFilter string

	// SortKey is the column to sort by; empty means base order.
	SortKey types.Field
	SortDir Direction

	// Page is 1-based and clamped into the valid range for the result set.
	Page int
}

// Projection is the derived display state.
type Projection struct {
	Rows          []types.GoalRow `json:"rows"`
	Page          int             `json:"page"`
	TotalPages    int             `json:"totalPages"`
	PageSize      int             `json:"pageSize"`
	FilteredCount int             `json:"filteredCount"`
	TotalCount    int             `json:"totalCount"`
	// PageStart is the zero-based index of the first row of the page within
	// the filtered+sorted sequence, for display row numbering.
	PageStart int `json:"pageStart"`
}

// newCollator builds the comparator for cell values: locale-aware,
// numeric-aware ("2" < "10"), case-insensitive. Collators carry internal
// buffers, so each Sort call gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Russian, collate.Numeric, collate.IgnoreCase)
}

// Apply derives the projection for the given rows and query.
func Apply(rows []types.GoalRow, q Query, pageSize int) Projection {
	filtered := Filter(rows, q.NameFilter, q.GoalFilter)
	sorted := Sort(filtered, q.SortKey, q.SortDir)
	return paginate(sorted, q.Page, pageSize, len(rows))
}

// Filter returns the rows passing every active substring filter. An empty
// filter always passes; matching is case-insensitive.
func Filter(rows []types.GoalRow, nameFilter, goalFilter string) []types.GoalRow {
	name := strings.ToLower(strings.TrimSpace(nameFilter))
	goal := strings.ToLower(strings.TrimSpace(goalFilter))
	if name == "" && goal == "" {
		return rows
	}

	out := make([]types.GoalRow, 0, len(rows))
	for _, row := range rows {
		if name != "" && !strings.Contains(strings.ToLower(row.LastName), name) {
			continue
		}
		if goal != "" && !strings.Contains(strings.ToLower(row.Goal), goal) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Sort orders rows by the given key. Values are trimmed before comparison;
// rows whose sort value is empty sort after all non-empty rows regardless of
// direction, and ties keep their original relative order.
func Sort(rows []types.GoalRow, key types.Field, dir Direction) []types.GoalRow {
	if key == "" {
		return rows
	}

	type indexed struct {
		row   types.GoalRow
		index int
	}
	work := make([]indexed, len(rows))
	for i, row := range rows {
		work[i] = indexed{row: row, index: i}
	}

	desc := dir == Descending
	collator := newCollator()
	sort.Slice(work, func(i, j int) bool {
		a, b := work[i], work[j]
		va := strings.TrimSpace(a.row.FieldValue(key))
		vb := strings.TrimSpace(b.row.FieldValue(key))
		emptyA := va == ""
		emptyB := vb == ""
		switch {
		case emptyA && emptyB:
			return a.index < b.index
		case emptyA:
			return false
		case emptyB:
			return true
		}
		result := collator.CompareString(va, vb)
		if result == 0 {
			return a.index < b.index
		}
		if desc {
			return result > 0
		}
		return result < 0
	})

	out := make([]types.GoalRow, len(work))
	for i, item := range work {
		out[i] = item.row
	}
	return out
}

// ToggleSort computes the next sort state: selecting the active key flips the
// direction, selecting a new key resets to ascending.
func ToggleSort(currentKey types.Field, currentDir Direction, selected types.Field) (types.Field, Direction) {
	if selected == currentKey {
		if currentDir == Ascending {
			return currentKey, Descending
		}
		return currentKey, Ascending
	}
	return selected, Ascending
}

// paginate slices one page out of the result set, clamping the page index
// into [1, totalPages].
func paginate(rows []types.GoalRow, page, pageSize, totalCount int) Projection {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := (len(rows) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}

	pageRows := make([]types.GoalRow, end-start)
	copy(pageRows, rows[start:end])

	return Projection{
		Rows:          pageRows,
		Page:          page,
		TotalPages:    totalPages,
		PageSize:      pageSize,
		FilteredCount: len(rows),
		TotalCount:    totalCount,
		PageStart:     start,
	}
}

// LastPage returns the page a newly appended row lands on.
func LastPage(totalRows, pageSize int) int {
	if pageSize < 1 || totalRows < 1 {
		return 1
	}
	return (totalRows + pageSize - 1) / pageSize
}
