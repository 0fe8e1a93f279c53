// Package validation checks request parameters before they reach the table
// engines. Errors accumulate in a Collector so a response can report every
// bad parameter at once.
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/scai-digital/cascade/internal/export"
	"github.com/scai-digital/cascade/internal/types"
	"github.com/scai-digital/cascade/internal/view"
)

// ValidationError represents a single parameter validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// ValidateTable returns an error unless value names a known table.
func ValidateTable(field, value string) *ValidationError {
	if _, ok := types.Spec(types.TableID(value)); !ok {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %s", joinTables()),
		}
	}
	return nil
}

func joinTables() string {
	ids := make([]string, 0, len(types.Tables()))
	for _, id := range types.Tables() {
		ids = append(ids, string(id))
	}
	return strings.Join(ids, ", ")
}

// ValidateSortKey returns an error unless value is a sortable column of the
// given table. An empty value means no sort and is valid.
func ValidateSortKey(field string, table types.TableSpec, value string) *ValidationError {
	if value == "" {
		return nil
	}
	if !table.SortableField(types.Field(value)) {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("is not a column of table %s", table.ID),
		}
	}
	return nil
}

// ValidateDirection returns an error unless value is asc or desc. Empty
// defaults to asc upstream and is valid.
func ValidateDirection(field, value string) *ValidationError {
	switch view.Direction(value) {
	case "", view.Ascending, view.Descending:
		return nil
	}
	return &ValidationError{
		Field:   field,
		Message: "must be asc or desc",
	}
}

// ValidatePage parses a page number. Empty means page 1. The parsed value
// must be a positive integer; out-of-range pages are clamped later, not
// rejected here.
func ValidatePage(field, value string) (int, *ValidationError) {
	if value == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(value)
	if err != nil || page < 1 {
		return 0, &ValidationError{
			Field:   field,
			Message: "must be a positive integer",
		}
	}
	return page, nil
}

// ValidateFormat returns an error unless value names an export format.
func ValidateFormat(field, value string) *ValidationError {
	if _, err := export.ParseFormat(value); err != nil {
		formats := make([]string, 0, len(export.Formats()))
		for _, f := range export.Formats() {
			formats = append(formats, string(f))
		}
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(formats, ", ")),
		}
	}
	return nil
}

// ValidateEditableField returns an error unless value names a row cell that
// an editing session may update.
func ValidateEditableField(field, value string) *ValidationError {
	for _, f := range types.Fields {
		if types.Field(value) == f {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: "is not an editable row field",
	}
}

// ValidateRequired returns an error if the value is empty or whitespace-only.
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	return nil
}

// ValidateUTF8 returns an error if the value is not valid UTF-8.
func ValidateUTF8(field, value string) *ValidationError {
	if !utf8.ValidString(value) {
		return &ValidationError{
			Field:   field,
			Message: "must be valid UTF-8",
		}
	}
	return nil
}

// ValidateMaxLength returns an error if the value exceeds max runes.
func ValidateMaxLength(field, value string, max int) *ValidationError {
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("exceeds maximum length of %d characters", max),
		}
	}
	return nil
}
