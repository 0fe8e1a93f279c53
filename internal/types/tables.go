package types

// TableID names one of the two independent row stores. They share shape and
// invariants but persist under disjoint keys and hold no cross-references.
type TableID string

const (
	TableGoals TableID = "goals"
	TableKPI   TableID = "kpi"
)

// Column describes one column of the tabular editor: persistence key, display
// label, and formatting hints. The same schema drives the view engine and the
// export adapter.
type Column struct {
	Key        Field
	Label      string
	Multiline  bool
	Filterable bool
}

// ExportColumns is the fixed column set every export format uses, in fixed
// header order, for both tables.
var ExportColumns = []Column{
	{Key: FieldLastName, Label: "ФИО", Filterable: true},
	{Key: FieldGoal, Label: "SCAI Цель", Multiline: true, Filterable: true},
	{Key: FieldMetricGoals, Label: "Метрические цели", Multiline: true},
	{Key: FieldWeightQ, Label: "вес квартал"},
	{Key: FieldWeightYear, Label: "вес год"},
	{Key: FieldQ1, Label: "1 квартал"},
	{Key: FieldQ2, Label: "2 квартал"},
	{Key: FieldQ3, Label: "3 квартал"},
	{Key: FieldQ4, Label: "4 квартал"},
	{Key: FieldYear, Label: "Год"},
}

// TableSpec is the static per-table configuration.
type TableSpec struct {
	ID           TableID
	Title        string
	PageSize     int
	ExportPrefix string
	Columns      []Column
}

var tableSpecs = map[TableID]TableSpec{
	TableGoals: {
		ID:           TableGoals,
		Title:        "Цели",
		PageSize:     20,
		ExportPrefix: "ппр",
		Columns: []Column{
			{Key: FieldLastName, Label: "ФИО", Filterable: true},
			{Key: FieldGoal, Label: "SCAI Цель", Multiline: true, Filterable: true},
			{Key: FieldQ1, Label: "1 квартал"},
			{Key: FieldQ2, Label: "2 квартал"},
			{Key: FieldQ3, Label: "3 квартал"},
			{Key: FieldQ4, Label: "4 квартал"},
			{Key: FieldYear, Label: "Год"},
		},
	},
	TableKPI: {
		ID:           TableKPI,
		Title:        "КПЭ",
		PageSize:     15,
		ExportPrefix: "кпэ",
		Columns:      ExportColumns,
	},
}

// Spec returns the static configuration for a table.
func Spec(id TableID) (TableSpec, bool) {
	spec, ok := tableSpecs[id]
	return spec, ok
}

// Tables lists the known table identifiers.
func Tables() []TableID {
	return []TableID{TableGoals, TableKPI}
}

// SortableField reports whether f is a column of the table and therefore a
// valid sort key.
func (s TableSpec) SortableField(f Field) bool {
	for _, col := range s.Columns {
		if col.Key == f {
			return true
		}
	}
	return false
}
