// Package console implements the admin client modules for the clinic
// records system: patients, appointments, employees and job positions.
//
// Each module owns an in-memory cache of the last listed collection. The
// cache is replaced wholesale on every successful list, is left untouched
// when a list fails, and resolves row identifiers to full records without
// refetching. Overlapping lists are last-writer-wins; there is no retry and
// no request sequencing.
package console

import "errors"

// Notifier surfaces a blocking, user-visible message. Every operation
// outcome, success or failure, ends in exactly one notification.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Confirmer answers a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Row is one rendered table row. ID lets the rendering layer attach edit,
// delete and status controls to the record the row came from.
type Row struct {
	ID    int64
	Cells []string
}

// Table is the rendering contract of a list operation. When Rows is empty
// the renderer emits a single placeholder row with the Empty message
// spanning every column.
type Table struct {
	Columns []string
	Rows    []Row
	Empty   string
}

var (
	// ErrValidation marks a required-field failure detected before any
	// network call.
	ErrValidation = errors.New("validation failed")

	// ErrNotInCache is returned when a row action references a record the
	// last listed collection does not contain.
	ErrNotInCache = errors.New("record not found in cache")
)

// orDash substitutes the display placeholder for empty cell values.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
