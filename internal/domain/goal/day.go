// Package goal implements the daily-goal domain model: one Day node per
// calendar date, its todo line items, and the chronological links that
// connect consecutive days on the canvas.
package goal

import (
	"regexp"

	appErrors "dailygoals-backend/pkg/errors"
)

// dateKeyPattern matches the YYYY-MM-DD day identity format.
var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Todo is a single line item owned by a Day. Its ID is unique within the
// owning day and is destroyed with it.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Day is the atomic unit of tracked state, one per calendar date.
// Its identity is the date key itself; a Day is never renamed.
type Day struct {
	Date      string  `json:"date"` // YYYY-MM-DD, doubles as the node id
	Goal      string  `json:"goal"`
	Completed bool    `json:"completed"`
	Summary   *string `json:"summary,omitempty"`
	Todos     []Todo  `json:"todos"`
}

// ID returns the node identity, which equals the date key.
func (d Day) ID() string {
	return d.Date
}

// Clone returns a deep copy of the day so setters can stay pure.
func (d Day) Clone() Day {
	out := d
	if d.Summary != nil {
		s := *d.Summary
		out.Summary = &s
	}
	if d.Todos != nil {
		out.Todos = make([]Todo, len(d.Todos))
		copy(out.Todos, d.Todos)
	}
	return out
}

// Equal reports field-by-field equality. A nil summary compares equal only
// to another nil summary; this mirrors the SQL null in the stored row.
func (d Day) Equal(other Day) bool {
	if d.Date != other.Date || d.Goal != other.Goal || d.Completed != other.Completed {
		return false
	}
	if (d.Summary == nil) != (other.Summary == nil) {
		return false
	}
	if d.Summary != nil && *d.Summary != *other.Summary {
		return false
	}
	if len(d.Todos) != len(other.Todos) {
		return false
	}
	for i, todo := range d.Todos {
		if todo != other.Todos[i] {
			return false
		}
	}
	return true
}

// FindTodo returns the index of the todo with the given id, or -1.
func (d Day) FindTodo(todoID string) int {
	for i, todo := range d.Todos {
		if todo.ID == todoID {
			return i
		}
	}
	return -1
}

// ValidateDateKey checks that a node id is a well-formed date key.
func ValidateDateKey(date string) error {
	if !dateKeyPattern.MatchString(date) {
		return appErrors.NewValidation("date must be an ISO date key (YYYY-MM-DD): " + date)
	}
	return nil
}
