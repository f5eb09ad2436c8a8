package domain

import "fmt"

// SchemaError reports a malformed input table. It is fatal for the
// stage that hits it: no coercion, no silent column drops.
type SchemaError struct {
	Table  string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema violation in table %q, field %q: %s", e.Table, e.Field, e.Reason)
}

// InsufficientDataError marks a subject that cannot be analyzed
// (too few observations). Callers recover locally: the subject is
// skipped or marked ineligible, never the whole run.
type InsufficientDataError struct {
	Subject string
	Reason  string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %s", e.Subject, e.Reason)
}
