package types

import (
	"encoding/json"

	"github.com/oklog/ulid/v2"
)

// Field identifies one editable column of a GoalRow.
type Field string

const (
	FieldLastName    Field = "lastName"
	FieldGoal        Field = "goal"
	FieldMetricGoals Field = "metricGoals"
	FieldWeightQ     Field = "weightQ"
	FieldWeightYear  Field = "weightYear"
	FieldQ1          Field = "q1"
	FieldQ2          Field = "q2"
	FieldQ3          Field = "q3"
	FieldQ4          Field = "q4"
	FieldYear        Field = "year"
)

// Fields lists every editable field in canonical column order.
var Fields = []Field{
	FieldLastName, FieldGoal, FieldMetricGoals,
	FieldWeightQ, FieldWeightYear,
	FieldQ1, FieldQ2, FieldQ3, FieldQ4, FieldYear,
}

// GoalRow is one cascaded goal/KPI record. Every field except ID is free
// text and defaults to the empty string, never absent, so display and
// aggregation logic needs no null checks beyond emptiness.
type GoalRow struct {
	ID          string `json:"id"`
	LastName    string `json:"lastName"`
	Goal        string `json:"goal"`
	MetricGoals string `json:"metricGoals"`
	WeightQ     string `json:"weightQ"`
	WeightYear  string `json:"weightYear"`
	Q1          string `json:"q1"`
	Q2          string `json:"q2"`
	Q3          string `json:"q3"`
	Q4          string `json:"q4"`
	Year        string `json:"year"`
}

// NewRow returns a blank row with a freshly generated id.
func NewRow() GoalRow {
	return GoalRow{ID: NewID()}
}

// NewID generates an opaque unique row identifier.
func NewID() string {
	return ulid.Make().String()
}

// FieldValue returns the value of the named field, or "" for unknown keys.
func (r GoalRow) FieldValue(f Field) string {
	switch f {
	case FieldLastName:
		return r.LastName
	case FieldGoal:
		return r.Goal
	case FieldMetricGoals:
		return r.MetricGoals
	case FieldWeightQ:
		return r.WeightQ
	case FieldWeightYear:
		return r.WeightYear
	case FieldQ1:
		return r.Q1
	case FieldQ2:
		return r.Q2
	case FieldQ3:
		return r.Q3
	case FieldQ4:
		return r.Q4
	case FieldYear:
		return r.Year
	}
	return ""
}

// SetField assigns the named field. Unknown keys are reported so callers
// can reject malformed drafts.
func (r *GoalRow) SetField(f Field, value string) bool {
	switch f {
	case FieldLastName:
		r.LastName = value
	case FieldGoal:
		r.Goal = value
	case FieldMetricGoals:
		r.MetricGoals = value
	case FieldWeightQ:
		r.WeightQ = value
	case FieldWeightYear:
		r.WeightYear = value
	case FieldQ1:
		r.Q1 = value
	case FieldQ2:
		r.Q2 = value
	case FieldQ3:
		r.Q3 = value
	case FieldQ4:
		r.Q4 = value
	case FieldYear:
		r.Year = value
	default:
		return false
	}
	return true
}

// Cells returns the row rendered in canonical column order.
func (r GoalRow) Cells() []string {
	cells := make([]string, len(Fields))
	for i, f := range Fields {
		cells[i] = r.FieldValue(f)
	}
	return cells
}

// GoalsState is the persisted shape of one table. Insertion order of Rows
// is the canonical base order and the display order absent an active sort.
type GoalsState struct {
	Rows []GoalRow `json:"rows"`
}

// MarshalJSON ensures a nil Rows slice marshals as [] not null.
func (s GoalsState) MarshalJSON() ([]byte, error) {
	if s.Rows == nil {
		s.Rows = []GoalRow{}
	}
	type alias GoalsState
	return json.Marshal(alias(s))
}
