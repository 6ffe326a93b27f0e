package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailygoals-backend/internal/domain/goal"
	appErrors "dailygoals-backend/pkg/errors"
)

func TestRowEqual(t *testing.T) {
	base := Row{ID: "2025-01-01", Date: "2025-01-01", Goal: "g", Todos: []goal.Todo{}}

	t.Run("IdenticalRowsAreEqual", func(t *testing.T) {
		assert.True(t, base.Equal(base))
	})

	t.Run("NilSummaryEqualsNilSummary", func(t *testing.T) {
		other := base
		assert.True(t, base.Equal(other))
	})

	t.Run("NilSummaryDiffersFromEmptyString", func(t *testing.T) {
		empty := ""
		other := base
		other.Summary = &empty
		assert.False(t, base.Equal(other))
	})

	t.Run("EqualSummaryValuesBehindDistinctPointers", func(t *testing.T) {
		a, b := "done", "done"
		left, right := base, base
		left.Summary, right.Summary = &a, &b
		assert.True(t, left.Equal(right))
	})

	t.Run("TodoContentMatters", func(t *testing.T) {
		left, right := base, base
		left.Todos = []goal.Todo{{ID: "t1", Text: "a"}}
		right.Todos = []goal.Todo{{ID: "t1", Text: "a", Completed: true}}
		assert.False(t, left.Equal(right))
	})
}

func TestRowDayRoundTrip(t *testing.T) {
	summary := "wrapped up"
	day := goal.Day{
		Date:      "2025-01-01",
		Goal:      "ship it",
		Completed: true,
		Summary:   &summary,
		Todos:     []goal.Todo{{ID: "t1", Text: "deploy", Completed: true}},
	}

	row := RowFromDay(day)
	assert.Equal(t, day.Date, row.ID, "the id mirrors the date key")
	assert.Equal(t, day, row.Day())
}

func TestRowFromDayNormalizesNilTodos(t *testing.T) {
	row := RowFromDay(goal.Day{Date: "2025-01-01"})
	assert.NotNil(t, row.Todos)
	assert.Empty(t, row.Todos)
}

func TestSortRows(t *testing.T) {
	rows := []Row{
		{ID: "2025-01-10", Date: "2025-01-10"},
		{ID: "2025-01-02", Date: "2025-01-02"},
		{ID: "2024-12-31", Date: "2024-12-31"},
	}
	SortRows(rows)
	assert.Equal(t, "2024-12-31", rows[0].Date)
	assert.Equal(t, "2025-01-02", rows[1].Date)
	assert.Equal(t, "2025-01-10", rows[2].Date)
}

func TestMemoryRowStore(t *testing.T) {
	ctx := context.Background()

	t.Run("GetMissingRowIsNotFound", func(t *testing.T) {
		store := NewMemoryRowStore()
		_, err := store.Get(ctx, "2025-01-01")
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))
	})

	t.Run("UpsertThenGet", func(t *testing.T) {
		store := NewMemoryRowStore()
		_, err := store.Upsert(ctx, Row{ID: "2025-01-01", Date: "2025-01-01", Goal: "g"})
		require.NoError(t, err)

		row, err := store.Get(ctx, "2025-01-01")
		require.NoError(t, err)
		assert.Equal(t, "g", row.Goal)
		assert.Equal(t, 1, store.UpsertCalls())
	})

	t.Run("ListIsDateOrdered", func(t *testing.T) {
		store := NewMemoryRowStore()
		store.Seed(
			Row{ID: "2025-01-03", Date: "2025-01-03"},
			Row{ID: "2025-01-01", Date: "2025-01-01"},
		)

		rows, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2025-01-01", rows[0].Date)
		assert.Equal(t, 0, store.UpsertCalls(), "seeding is not a write")
	})

	t.Run("DeleteReportsPresence", func(t *testing.T) {
		store := NewMemoryRowStore()
		store.Seed(Row{ID: "2025-01-01", Date: "2025-01-01"})

		found, err := store.Delete(ctx, "2025-01-01")
		require.NoError(t, err)
		assert.True(t, found)

		found, err = store.Delete(ctx, "2025-01-01")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("ForcedErrorSurfacesEverywhere", func(t *testing.T) {
		store := NewMemoryRowStore()
		forced := errors.New("down for maintenance")
		store.SetError(forced)

		_, err := store.Get(ctx, "2025-01-01")
		assert.ErrorIs(t, err, forced)
		_, err = store.List(ctx)
		assert.ErrorIs(t, err, forced)
		_, err = store.Upsert(ctx, Row{ID: "2025-01-01"})
		assert.ErrorIs(t, err, forced)
		_, err = store.Delete(ctx, "2025-01-01")
		assert.ErrorIs(t, err, forced)
	})
}
