package loans

import "fmt"

// SchemaError reports a warehouse row that does not match the loan schema.
type SchemaError struct {
	// Row is the zero-based index of the offending row, -1 when unknown.
	Row    int
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("schema error: column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("schema error: row %d: column %q: %s", e.Row, e.Column, e.Reason)
}

func missing(column string) *SchemaError {
	return &SchemaError{Row: -1, Column: column, Reason: "required value is missing"}
}

func wrongType(column string, v any, want string) *SchemaError {
	return &SchemaError{Row: -1, Column: column, Reason: fmt.Sprintf("expected %s, got %T", want, v)}
}

func invalid(column string, err error) *SchemaError {
	return &SchemaError{Row: -1, Column: column, Reason: err.Error()}
}
