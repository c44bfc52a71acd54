package csvimport

import (
	"errors"
	"fmt"
)

// Row error codes, reported per cell
const (
	CodeRequired      = "ERR_IMPORT_REQUIRED_FIELD"
	CodeInvalidType   = "ERR_IMPORT_INVALID_TYPE"
	CodeInvalidLength = "ERR_IMPORT_INVALID_LENGTH"
	CodeInvalidRange  = "ERR_IMPORT_INVALID_RANGE"
	CodeNotAllowed    = "ERR_IMPORT_VALUE_NOT_ALLOWED"
	CodeDuplicate     = "ERR_IMPORT_DUPLICATE_IN_FILE"
	CodeRejected      = "ERR_IMPORT_ROW_REJECTED"
)

// File level errors
var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")
	ErrMissingHeader   = errors.New("CSV file has no header row")
	ErrDuplicateColumn = errors.New("CSV header repeats a column")
	ErrNoDataRows      = errors.New("CSV file contains no data rows")
	ErrTooManyRows     = errors.New("CSV file has too many rows")
)

// DefaultMaxErrors bounds an ErrorCollection created with a non-positive limit
const DefaultMaxErrors = 100

// RowError describes one rejected cell or row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %s: %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ErrorCollection keeps the first errors of an import and counts the rest
type ErrorCollection struct {
	errors []RowError
	rows   map[int]struct{}
	limit  int
	total  int
}

// NewErrorCollection keeps at most maxErrors entries
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &ErrorCollection{
		rows:  make(map[int]struct{}),
		limit: maxErrors,
	}
}

// Add records err. Errors beyond the limit are counted but not kept.
func (c *ErrorCollection) Add(err RowError) {
	c.total++
	c.rows[err.Row] = struct{}{}
	if len(c.errors) < c.limit {
		c.errors = append(c.errors, err)
	}
}

// Reject records a row level failure that is not tied to one column
func (c *ErrorCollection) Reject(row int, message string) {
	c.Add(RowError{Row: row, Code: CodeRejected, Message: message})
}

// Errors returns the kept errors in the order they were added
func (c *ErrorCollection) Errors() []RowError {
	if c.errors == nil {
		return []RowError{}
	}
	return c.errors
}

// Total counts every error added, kept or not
func (c *ErrorCollection) Total() int {
	return c.total
}

// Rows counts the distinct rows with at least one error
func (c *ErrorCollection) Rows() int {
	return len(c.rows)
}

// HasRow reports whether row has an error
func (c *ErrorCollection) HasRow(row int) bool {
	_, ok := c.rows[row]
	return ok
}

// Empty reports whether no error was added
func (c *ErrorCollection) Empty() bool {
	return c.total == 0
}

// Truncated reports whether errors were dropped because of the limit
func (c *ErrorCollection) Truncated() bool {
	return c.total > len(c.errors)
}
