package setters

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"dailygoals-backend/internal/domain/goal"
	appErrors "dailygoals-backend/pkg/errors"
)

// Partial is the shape of updateGoal's data argument. Pointer fields
// distinguish "not supplied" from a supplied zero value. Todos is a whole
// array replacement: callers must resend the full list.
type Partial struct {
	Date      *string     `json:"date"`
	Goal      *string     `json:"goal"`
	Completed *bool       `json:"completed"`
	Summary   *string     `json:"summary"`
	Todos     *[]goal.Todo `json:"todos"`
}

// Argument decoding. The protocol layer leaves args untyped; arity and
// typing are validated here, at the setter boundary. A wrong type is a
// validation error; a well-typed but stale referent is not.

func stringArg(args []any, i int, name string) (string, error) {
	if i >= len(args) {
		return "", appErrors.NewValidation(fmt.Sprintf("missing argument %q at position %d", name, i))
	}
	s, ok := args[i].(string)
	if !ok {
		return "", appErrors.NewValidation(fmt.Sprintf("argument %q must be a string", name))
	}
	return s, nil
}

func partialArg(args []any, i int, name string) (Partial, error) {
	var p Partial
	if i >= len(args) {
		return p, appErrors.NewValidation(fmt.Sprintf("missing argument %q at position %d", name, i))
	}
	// Args arrive as decoded JSON, so the object is a map. Round-trip
	// through encoding/json to get the typed partial.
	raw, err := json.Marshal(args[i])
	if err != nil {
		return p, appErrors.NewValidation(fmt.Sprintf("argument %q is not a JSON object", name))
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, appErrors.NewValidation(fmt.Sprintf("argument %q has the wrong shape: %v", name, err))
	}
	return p, nil
}

// executeCreateDayNode inserts a new day with an empty todo list and links
// it from the chronologically nearest earlier day. Creating a date that
// already exists is a no-op: day identity is unique per calendar date.
func executeCreateDayNode(current goal.Graph, args []any) (Result, error) {
	date, err := stringArg(args, 0, "date")
	if err != nil {
		return Result{}, err
	}
	goalText, err := stringArg(args, 1, "goal")
	if err != nil {
		return Result{}, err
	}
	if err := goal.ValidateDateKey(date); err != nil {
		return Result{}, err
	}

	if current.FindDay(date) >= 0 {
		return Result{Graph: current}, nil
	}

	day := goal.Day{Date: date, Goal: goalText, Completed: false, Todos: []goal.Todo{}}
	return insertDay(current, day), nil
}

func executeSetGoalSummary(current goal.Graph, args []any) (Result, error) {
	id, err := stringArg(args, 0, "id")
	if err != nil {
		return Result{}, err
	}
	summary, err := stringArg(args, 1, "summary")
	if err != nil {
		return Result{}, err
	}

	next := current.Clone()
	if i := next.FindDay(id); i >= 0 {
		next.Days[i].Summary = &summary
	}
	return Result{Graph: next}, nil
}

func executeAddTodo(current goal.Graph, args []any) (Result, error) {
	id, err := stringArg(args, 0, "id")
	if err != nil {
		return Result{}, err
	}
	text, err := stringArg(args, 1, "text")
	if err != nil {
		return Result{}, err
	}

	next := current.Clone()
	if i := next.FindDay(id); i >= 0 {
		todo := goal.Todo{ID: uuid.NewString(), Text: text, Completed: false}
		next.Days[i].Todos = append(next.Days[i].Todos, todo)
	}
	return Result{Graph: next}, nil
}

func executeMarkTodoComplete(current goal.Graph, args []any) (Result, error) {
	id, err := stringArg(args, 0, "id")
	if err != nil {
		return Result{}, err
	}
	todoID, err := stringArg(args, 1, "todoId")
	if err != nil {
		return Result{}, err
	}

	next := current.Clone()
	if i := next.FindDay(id); i >= 0 {
		if j := next.Days[i].FindTodo(todoID); j >= 0 {
			next.Days[i].Todos[j].Completed = true
		}
	}
	return Result{Graph: next}, nil
}

func executeMarkGoalComplete(current goal.Graph, args []any) (Result, error) {
	id, err := stringArg(args, 0, "id")
	if err != nil {
		return Result{}, err
	}

	next := current.Clone()
	if i := next.FindDay(id); i >= 0 {
		next.Days[i].Completed = true
	}
	return Result{Graph: next}, nil
}

// executeUpdateGoal is the idempotent upsert the agent is steered towards.
// An existing day gets the supplied fields shallow-merged into it; an
// absent one is constructed from the partial with defaults. Only this
// setter requests persistence: the service layer runs the diff-before-write
// guard against the stored row.
func executeUpdateGoal(current goal.Graph, args []any) (Result, error) {
	id, err := stringArg(args, 0, "id")
	if err != nil {
		return Result{}, err
	}
	partial, err := partialArg(args, 1, "data")
	if err != nil {
		return Result{}, err
	}

	next := current.Clone()
	if i := next.FindDay(id); i >= 0 {
		day := next.Days[i].Clone()
		// Day identity is the date key and is never renamed, so a date
		// field in the partial is ignored on the merge path.
		if partial.Goal != nil {
			day.Goal = *partial.Goal
		}
		if partial.Completed != nil {
			day.Completed = *partial.Completed
		}
		if partial.Summary != nil {
			day.Summary = partial.Summary
		}
		if partial.Todos != nil {
			day.Todos = *partial.Todos
		}
		next.Days[i] = day
		persisted := day.Clone()
		return Result{Graph: next, Persist: &persisted}, nil
	}

	date := id
	if partial.Date != nil && *partial.Date != "" {
		date = *partial.Date
	}
	if err := goal.ValidateDateKey(date); err != nil {
		return Result{}, err
	}

	day := goal.Day{Date: date, Completed: false, Todos: []goal.Todo{}}
	if partial.Goal != nil {
		day.Goal = *partial.Goal
	}
	if partial.Completed != nil {
		day.Completed = *partial.Completed
	}
	if partial.Summary != nil {
		day.Summary = partial.Summary
	}
	if partial.Todos != nil {
		day.Todos = *partial.Todos
	}

	result := insertDay(current, day)
	persisted := day.Clone()
	result.Persist = &persisted
	return result, nil
}

// insertDay appends the day and the link from its nearest earlier
// neighbour, when one exists. The link is computed against the graph
// before insertion.
func insertDay(current goal.Graph, day goal.Day) Result {
	next := current.Clone()
	next.Days = append(next.Days, day)

	result := Result{Graph: next}
	if prev, ok := goal.NearestEarlier(current.Days, day.Date); ok {
		link := goal.NewLink(prev.ID(), day.ID())
		result.Graph = result.Graph.AddLink(link)
		result.AddedLinks = []goal.Link{link}
	}
	return result
}
