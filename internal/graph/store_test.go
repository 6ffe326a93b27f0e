package graph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailygoals-backend/internal/domain/goal"
)

func TestStoreIsolation(t *testing.T) {
	initial := goal.Graph{Days: []goal.Day{{Date: "2025-01-01", Goal: "g"}}}
	store := NewStore(initial)

	t.Run("CurrentReturnsACopy", func(t *testing.T) {
		snapshot := store.Current()
		snapshot.Days[0].Goal = "mutated"
		assert.Equal(t, "g", store.Current().Days[0].Goal)
	})

	t.Run("InitialGraphIsNotAliased", func(t *testing.T) {
		initial.Days[0].Completed = true
		assert.False(t, store.Current().Days[0].Completed)
	})
}

func TestStoreApply(t *testing.T) {
	t.Run("InstallsTheReturnedGraph", func(t *testing.T) {
		store := NewStore(goal.Graph{})
		next := store.Apply(func(g goal.Graph) goal.Graph {
			g.Days = append(g.Days, goal.Day{Date: "2025-01-01"})
			return g
		})

		require.Len(t, next.Days, 1)
		assert.Len(t, store.Current().Days, 1)
	})

	t.Run("ConcurrentAppliesAllLand", func(t *testing.T) {
		store := NewStore(goal.Graph{})

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.Apply(func(g goal.Graph) goal.Graph {
					g.Days = append(g.Days, goal.Day{Date: "x"})
					return g
				})
			}()
		}
		wg.Wait()

		assert.Len(t, store.Current().Days, 50)
	})
}
