package goal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestEarlier(t *testing.T) {
	days := []Day{
		{Date: "2025-01-01"},
		{Date: "2025-01-03"},
		{Date: "2025-01-10"},
	}

	t.Run("PicksNearestEarlierDate", func(t *testing.T) {
		prev, ok := NearestEarlier(days, "2025-01-02")
		require.True(t, ok)
		assert.Equal(t, "2025-01-01", prev.ID())
	})

	t.Run("SkipsLaterDates", func(t *testing.T) {
		prev, ok := NearestEarlier(days, "2025-01-05")
		require.True(t, ok)
		assert.Equal(t, "2025-01-03", prev.ID())
	})

	t.Run("NoEarlierDay", func(t *testing.T) {
		_, ok := NearestEarlier(days, "2025-01-01")
		assert.False(t, ok)
	})

	t.Run("EmptyGraph", func(t *testing.T) {
		_, ok := NearestEarlier(nil, "2025-01-01")
		assert.False(t, ok)
	})
}

func TestChainLinks(t *testing.T) {
	t.Run("BuildsChainFromUnsortedInput", func(t *testing.T) {
		days := []Day{
			{Date: "2025-01-03"},
			{Date: "2025-01-01"},
			{Date: "2025-01-02"},
		}

		links := ChainLinks(days)
		require.Len(t, links, 2)
		assert.Equal(t, Link{ID: "e2025-01-01-2025-01-02", Source: "2025-01-01", Target: "2025-01-02"}, links[0])
		assert.Equal(t, Link{ID: "e2025-01-02-2025-01-03", Source: "2025-01-02", Target: "2025-01-03"}, links[1])
	})

	t.Run("SingleDayHasNoLinks", func(t *testing.T) {
		assert.Empty(t, ChainLinks([]Day{{Date: "2025-01-01"}}))
	})
}

func TestDayEqual(t *testing.T) {
	summary := "done"

	t.Run("NilSummaryEqualsNilSummary", func(t *testing.T) {
		a := Day{Date: "2025-01-01", Goal: "g"}
		b := Day{Date: "2025-01-01", Goal: "g"}
		assert.True(t, a.Equal(b))
	})

	t.Run("NilSummaryDiffersFromSetSummary", func(t *testing.T) {
		a := Day{Date: "2025-01-01", Goal: "g"}
		b := Day{Date: "2025-01-01", Goal: "g", Summary: &summary}
		assert.False(t, a.Equal(b))
	})

	t.Run("TodoOrderMatters", func(t *testing.T) {
		a := Day{Date: "2025-01-01", Todos: []Todo{{ID: "1"}, {ID: "2"}}}
		b := Day{Date: "2025-01-01", Todos: []Todo{{ID: "2"}, {ID: "1"}}}
		assert.False(t, a.Equal(b))
	})
}

func TestDayClone(t *testing.T) {
	summary := "s"
	original := Day{Date: "2025-01-01", Summary: &summary, Todos: []Todo{{ID: "1", Text: "t"}}}

	clone := original.Clone()
	clone.Todos[0].Completed = true
	*clone.Summary = "changed"

	assert.False(t, original.Todos[0].Completed)
	assert.Equal(t, "s", *original.Summary)
}
