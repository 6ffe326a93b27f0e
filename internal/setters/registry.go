// Package setters implements the catalogue of named mutation operations
// over the day graph. Every mutation in the system, whether it originates
// from the human editor or from the agent's command protocol, goes through
// one of these registered setters.
//
// Setters are pure: each takes the current graph plus a positional argument
// list and returns a new graph together with a description of side effects
// (added links, an optional row to persist). They never throw for missing
// referents; a stale id from the agent is a silent no-op.
package setters

import (
	"sort"

	"dailygoals-backend/internal/domain/goal"
)

// Key identifies a registered setter. The set of keys is static; the
// command protocol rejects anything outside it.
type Key string

const (
	KeyCreateDayNode    Key = "createDayNode"
	KeySetGoalSummary   Key = "setGoalSummary"
	KeyAddTodo          Key = "addTodo"
	KeyMarkTodoComplete Key = "markTodoComplete"
	KeyMarkGoalComplete Key = "markGoalComplete"
	KeyUpdateGoal       Key = "updateGoal"
)

// Param documents one positional parameter of a setter.
type Param struct {
	Name        string
	Type        string
	Description string
}

// Result describes the outcome of executing a setter: the new graph state,
// the link edges that were appended (already present in Graph, repeated
// here as a delta), and an optional day row to synchronize with storage.
type Result struct {
	Graph      goal.Graph
	AddedLinks []goal.Link
	Persist    *goal.Day
}

// ExecuteFunc is a pure setter function over the graph.
type ExecuteFunc func(current goal.Graph, args []any) (Result, error)

// Setter is a named, parameter-documented mutation operation.
type Setter struct {
	Key         Key
	Description string
	Params      []Param
	Execute     ExecuteFunc
}

// registry is the static setter catalogue. It is intentionally not
// mutable at runtime: the protocol layer validates setter keys against
// this exact set.
var registry = map[Key]Setter{
	KeyCreateDayNode: {
		Key:         KeyCreateDayNode,
		Description: "Create a new day node with a goal for that date",
		Params: []Param{
			{Name: "date", Type: "string", Description: "ISO date string (YYYY-MM-DD) for the new day"},
			{Name: "goal", Type: "string", Description: "Goal text for that day"},
		},
		Execute: executeCreateDayNode,
	},
	KeySetGoalSummary: {
		Key:         KeySetGoalSummary,
		Description: "Set the summary of what was accomplished that day",
		Params: []Param{
			{Name: "id", Type: "string", Description: "Node id (date)"},
			{Name: "summary", Type: "string", Description: "Summary text"},
		},
		Execute: executeSetGoalSummary,
	},
	KeyAddTodo: {
		Key:         KeyAddTodo,
		Description: "Add a todo line item to the specified day",
		Params: []Param{
			{Name: "id", Type: "string", Description: "Node id (date)"},
			{Name: "text", Type: "string", Description: "Todo text"},
		},
		Execute: executeAddTodo,
	},
	KeyMarkTodoComplete: {
		Key:         KeyMarkTodoComplete,
		Description: "Mark a todo as complete by todo id",
		Params: []Param{
			{Name: "id", Type: "string", Description: "Node id (date)"},
			{Name: "todoId", Type: "string", Description: "Todo item id"},
		},
		Execute: executeMarkTodoComplete,
	},
	KeyMarkGoalComplete: {
		Key:         KeyMarkGoalComplete,
		Description: "Mark the daily goal as complete",
		Params: []Param{
			{Name: "id", Type: "string", Description: "Node id (date)"},
		},
		Execute: executeMarkGoalComplete,
	},
	KeyUpdateGoal: {
		Key:         KeyUpdateGoal,
		Description: "Update any fields of a goal node; accepts a partial data object",
		Params: []Param{
			{Name: "id", Type: "string", Description: "Node id (date)"},
			{Name: "data", Type: "object", Description: "Subset of fields to update (goal, completed, summary, todos)"},
		},
		Execute: executeUpdateGoal,
	},
}

// Lookup resolves a setter by key.
func Lookup(key Key) (Setter, bool) {
	s, ok := registry[key]
	return s, ok
}

// IsRegistered reports whether the key names a declared setter.
func IsRegistered(key Key) bool {
	_, ok := registry[key]
	return ok
}

// Keys returns the declared setter keys in stable order.
func Keys() []Key {
	keys := make([]Key, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
