// Package dashboard computes read-only statistics over a row store snapshot:
// summary counts, weight distributions, groupings, completeness ratios, and
// quarter series. Every function is stateless and defensive against
// non-numeric text; an empty row set produces empty results, never a panic.
package dashboard

import (
	"sort"
	"strings"

	"github.com/scai-digital/cascade/internal/types"
)

// EmptyLabel is rendered when a row offers no usable label text.
const EmptyLabel = "—"

// Palette is the fixed cyclic color palette for chart segments.
var Palette = []string{
	"#2563eb", "#16a34a", "#f59e0b", "#dc2626",
	"#7c3aed", "#0891b2", "#db2777", "#65a30d",
}

// Top-N caps for the grouping views.
const (
	TopOwnersLimit = 10
	TopGoalsLimit  = 8
)

// Summary holds the headline counts of one table.
type Summary struct {
	TotalRows      int `json:"totalRows"`
	DistinctOwners int `json:"distinctOwners"`
	RowsWithYear   int `json:"rowsWithYear"`
	ValidWeights   int `json:"validWeights"`
}

// Summarize computes the summary counts. Marker tokens and out-of-range
// weights still count toward TotalRows; they are only excluded from
// ValidWeights.
func Summarize(rows []types.GoalRow) Summary {
	s := Summary{TotalRows: len(rows)}
	owners := map[string]struct{}{}
	for _, row := range rows {
		if owner := strings.TrimSpace(row.LastName); owner != "" {
			owners[owner] = struct{}{}
		}
		if strings.TrimSpace(row.Year) != "" {
			s.RowsWithYear++
		}
		if _, ok := ParseWeight(row.WeightYear); ok {
			s.ValidWeights++
		}
	}
	s.DistinctOwners = len(owners)
	return s
}

// WeightSlice is one entry of the weight distribution: a display label and
// its percentage weight.
type WeightSlice struct {
	Label string  `json:"label"`
	Pct   float64 `json:"pct"`
}

// rowLabel prefers the metric-goal text, falls back to the qualitative goal
// text, then to the em-dash placeholder.
func rowLabel(row types.GoalRow) string {
	if label := strings.TrimSpace(row.MetricGoals); label != "" {
		return label
	}
	if label := strings.TrimSpace(row.Goal); label != "" {
		return label
	}
	return EmptyLabel
}

// WeightDistribution lists (label, pct) for every row with a valid positive
// yearly percentage weight, in original row order.
func WeightDistribution(rows []types.GoalRow) []WeightSlice {
	out := []WeightSlice{}
	for _, row := range rows {
		pct, ok := ParseWeight(row.WeightYear)
		if !ok || pct <= 0 {
			continue
		}
		out = append(out, WeightSlice{Label: rowLabel(row), Pct: pct})
	}
	return out
}

// Bar is a distribution entry scaled to the maximum value present, for a
// simple horizontal bar chart.
type Bar struct {
	Label string  `json:"label"`
	Pct   float64 `json:"pct"`
	Ratio float64 `json:"ratio"` // Pct / max(Pct), in (0, 1]
}

// Bars scales the distribution to its maximum value.
func Bars(dist []WeightSlice) []Bar {
	out := []Bar{}
	max := 0.0
	for _, d := range dist {
		if d.Pct > max {
			max = d.Pct
		}
	}
	if max == 0 {
		return out
	}
	for _, d := range dist {
		out = append(out, Bar{Label: d.Label, Pct: d.Pct, Ratio: d.Pct / max})
	}
	return out
}

// Arc is one segment of the proportional circular chart. Fractions sum to 1
// whenever at least one valid weight exists, so arc lengths cover the full
// circle; with no weights the result is empty and the chart renders its
// empty state.
type Arc struct {
	Label    string  `json:"label"`
	Pct      float64 `json:"pct"`
	Fraction float64 `json:"fraction"`
	Color    string  `json:"color"`
}

// Arcs converts the distribution into circular-chart segments, ordered by
// original row order, colored from the fixed cyclic palette.
func Arcs(dist []WeightSlice) []Arc {
	out := []Arc{}
	sum := 0.0
	for _, d := range dist {
		sum += d.Pct
	}
	if sum == 0 {
		return out
	}
	for i, d := range dist {
		out = append(out, Arc{
			Label:    d.Label,
			Pct:      d.Pct,
			Fraction: d.Pct / sum,
			Color:    Palette[i%len(Palette)],
		})
	}
	return out
}

// Group is one entry of a top-N grouping.
type Group struct {
	Key       string  `json:"key"`
	Count     int     `json:"count"`
	WeightSum float64 `json:"weightSum,omitempty"`
}

// TopOwners groups rows by owner name, counting occurrences, descending by
// count, capped at TopOwnersLimit. Rows with an empty owner are skipped.
func TopOwners(rows []types.GoalRow) []Group {
	return topGroups(rows, TopOwnersLimit, func(row types.GoalRow) string {
		return strings.TrimSpace(row.LastName)
	}, false)
}

// TopGoals groups rows by goal text, counting occurrences and summing valid
// yearly percentage weights, descending by count, capped at TopGoalsLimit.
func TopGoals(rows []types.GoalRow) []Group {
	return topGroups(rows, TopGoalsLimit, func(row types.GoalRow) string {
		return strings.TrimSpace(row.Goal)
	}, true)
}

func topGroups(rows []types.GoalRow, limit int, keyOf func(types.GoalRow) string, sumWeights bool) []Group {
	index := map[string]int{}
	groups := []Group{}
	for _, row := range rows {
		key := keyOf(row)
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Count++
		if sumWeights {
			if w, ok := ParseWeight(row.WeightYear); ok {
				groups[i].WeightSum += w
			}
		}
	}

	// Descending by count; first-seen order breaks ties.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// FieldFill is the fill rate of one tracked field.
type FieldFill struct {
	Field types.Field `json:"field"`
	Pct   float64     `json:"pct"` // 0..100
}

// FieldCompleteness reports, for every tracked field, the percentage of rows
// where the field is non-empty after trimming.
func FieldCompleteness(rows []types.GoalRow, fields []types.Field) []FieldFill {
	out := []FieldFill{}
	for _, f := range fields {
		fill := FieldFill{Field: f}
		if len(rows) > 0 {
			filled := 0
			for _, row := range rows {
				if strings.TrimSpace(row.FieldValue(f)) != "" {
					filled++
				}
			}
			fill.Pct = float64(filled) / float64(len(rows)) * 100
		}
		out = append(out, fill)
	}
	return out
}

// QuarterSeries is the four quarter values of the first row carrying at
// least one numeric quarter, scaled to the maximum of those four for a bar
// series.
type QuarterSeries struct {
	Label  string     `json:"label"`
	Values [4]float64 `json:"values"`
	Scaled [4]float64 `json:"scaled"` // Values / max(Values), 0 where unparseable
}

func quarterCells(row types.GoalRow) [4]string {
	return [4]string{row.Q1, row.Q2, row.Q3, row.Q4}
}

// FirstQuarterSeries locates the first row with at least one numeric quarter
// value. The second return is false when no such row exists.
func FirstQuarterSeries(rows []types.GoalRow) (QuarterSeries, bool) {
	for _, row := range rows {
		cells := quarterCells(row)
		series := QuarterSeries{Label: rowLabel(row)}
		any := false
		max := 0.0
		for i, cell := range cells {
			if v, ok := ParseNumber(cell); ok {
				series.Values[i] = v
				any = true
				if v > max {
					max = v
				}
			}
		}
		if !any {
			continue
		}
		if max > 0 {
			for i, v := range series.Values {
				series.Scaled[i] = v / max
			}
		}
		return series, true
	}
	return QuarterSeries{}, false
}

// HeatRow is the presence grid of one row: filled vs empty per quarter.
type HeatRow struct {
	Label    string  `json:"label"`
	Quarters [4]bool `json:"quarters"`
}

// QuarterHeat renders a presence/absence grid across the first n rows and
// the four quarters.
func QuarterHeat(rows []types.GoalRow, n int) []HeatRow {
	out := []HeatRow{}
	for i, row := range rows {
		if i >= n {
			break
		}
		heat := HeatRow{Label: rowLabel(row)}
		for j, cell := range quarterCells(row) {
			heat.Quarters[j] = strings.TrimSpace(cell) != ""
		}
		out = append(out, heat)
	}
	return out
}

// Snapshot bundles every dashboard statistic computed from one store read.
type Snapshot struct {
	Summary       Summary        `json:"summary"`
	Distribution  []WeightSlice  `json:"distribution"`
	Bars          []Bar          `json:"bars"`
	Arcs          []Arc          `json:"arcs"`
	TopOwners     []Group        `json:"topOwners"`
	TopGoals      []Group        `json:"topGoals"`
	Completeness  []FieldFill    `json:"completeness"`
	QuarterSeries *QuarterSeries `json:"quarterSeries,omitempty"`
	QuarterHeat   []HeatRow      `json:"quarterHeat"`
}

// HeatRowLimit caps the presence grid.
const HeatRowLimit = 12

// Compute derives the full dashboard snapshot for a table.
func Compute(rows []types.GoalRow) Snapshot {
	dist := WeightDistribution(rows)
	snap := Snapshot{
		Summary:      Summarize(rows),
		Distribution: dist,
		Bars:         Bars(dist),
		Arcs:         Arcs(dist),
		TopOwners:    TopOwners(rows),
		TopGoals:     TopGoals(rows),
		Completeness: FieldCompleteness(rows, types.Fields),
		QuarterHeat:  QuarterHeat(rows, HeatRowLimit),
	}
	if series, ok := FirstQuarterSeries(rows); ok {
		snap.QuarterSeries = &series
	}
	return snap
}
