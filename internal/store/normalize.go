package store

import (
	"encoding/json"

	"github.com/scai-digital/cascade/internal/types"
)

// NormalizeRow coerces an arbitrary decoded object into a well-formed row:
// any field that is not a string becomes the empty string, and a missing id
// is freshly generated. Applying it twice yields the same row.
func NormalizeRow(candidate map[string]any) types.GoalRow {
	str := func(key string) string {
		if s, ok := candidate[key].(string); ok {
			return s
		}
		return ""
	}

	row := types.GoalRow{ID: str("id")}
	if row.ID == "" {
		row.ID = types.NewID()
	}
	for _, f := range types.Fields {
		row.SetField(f, str(string(f)))
	}
	return row
}

// legacyState is the older persisted schema that split rows into two named
// lists. It is read and merged chairman-first but never written back.
type legacyState struct {
	Rows      []json.RawMessage `json:"rows"`
	Chairman  []json.RawMessage `json:"chairman"`
	Directors []json.RawMessage `json:"directors"`
}

// decodeState turns persisted bytes into a normalized table state.
// Missing, corrupt, or non-object data yields an empty state with ok=false;
// corruption is swallowed, never surfaced to the caller. ok=true means the
// bytes held a readable document, even one with zero rows.
func decodeState(raw []byte) (state *types.GoalsState, ok bool) {
	state = &types.GoalsState{Rows: []types.GoalRow{}}
	if len(raw) == 0 {
		return state, false
	}

	var decoded legacyState
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return state, false
	}

	rawRows := decoded.Rows
	if rawRows == nil {
		rawRows = append(decoded.Chairman, decoded.Directors...)
	}

	for _, rawRow := range rawRows {
		var candidate map[string]any
		if err := json.Unmarshal(rawRow, &candidate); err != nil {
			continue
		}
		state.Rows = append(state.Rows, NormalizeRow(candidate))
	}
	return state, true
}
