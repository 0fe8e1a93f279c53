package store

import "errors"

// ErrRowNotFound is returned when a row id does not exist in the table.
var ErrRowNotFound = errors.New("row not found")

// ErrUnknownTable is returned for table ids outside the static table set.
var ErrUnknownTable = errors.New("unknown table")
