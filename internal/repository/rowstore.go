// Package repository defines the row store port for daily goal
// persistence and its implementations. The store holds one row per day,
// keyed by the ISO date; everything beyond this contract (schema, wire
// format) belongs to the storage backend.
package repository

import (
	"context"
	"sort"

	"dailygoals-backend/internal/domain/goal"
)

// Row is the stored representation of a day. The id duplicates the date
// for easy querying, matching the daily_goals table layout.
type Row struct {
	ID        string      `json:"id"`
	Date      string      `json:"date"`
	Goal      string      `json:"goal"`
	Completed bool        `json:"completed"`
	Summary   *string     `json:"summary"`
	Todos     []goal.Todo `json:"todos"`
}

// RowStore is the persistence port. Get returns a NOT_FOUND application
// error when no row exists for the date key; List returns rows ordered by
// date ascending.
type RowStore interface {
	Get(ctx context.Context, dateKey string) (*Row, error)
	List(ctx context.Context) ([]Row, error)
	Upsert(ctx context.Context, row Row) (*Row, error)
	Delete(ctx context.Context, dateKey string) (bool, error)
}

// RowFromDay builds the candidate row for a day.
func RowFromDay(d goal.Day) Row {
	todos := d.Todos
	if todos == nil {
		todos = []goal.Todo{}
	}
	return Row{
		ID:        d.Date,
		Date:      d.Date,
		Goal:      d.Goal,
		Completed: d.Completed,
		Summary:   d.Summary,
		Todos:     todos,
	}
}

// Day converts a stored row back into the domain model.
func (r Row) Day() goal.Day {
	todos := r.Todos
	if todos == nil {
		todos = []goal.Todo{}
	}
	return goal.Day{
		Date:      r.Date,
		Goal:      r.Goal,
		Completed: r.Completed,
		Summary:   r.Summary,
		Todos:     todos,
	}
}

// Equal is the diff-before-write guard comparison: field by field, with a
// nil summary comparing equal to SQL null and to an absent value. An equal
// candidate must skip the write entirely.
func (r Row) Equal(other Row) bool {
	if r.ID != other.ID || r.Date != other.Date || r.Goal != other.Goal || r.Completed != other.Completed {
		return false
	}
	if (r.Summary == nil) != (other.Summary == nil) {
		return false
	}
	if r.Summary != nil && *r.Summary != *other.Summary {
		return false
	}
	if len(r.Todos) != len(other.Todos) {
		return false
	}
	for i, todo := range r.Todos {
		if todo != other.Todos[i] {
			return false
		}
	}
	return true
}

// SortRows orders rows by date ascending, in place.
func SortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
}
