package goals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailygoals-backend/internal/agent"
	"dailygoals-backend/internal/domain/goal"
	"dailygoals-backend/internal/protocol"
	"dailygoals-backend/internal/repository"
	"dailygoals-backend/internal/setters"
	"dailygoals-backend/internal/stream"
)

// scriptedAgent returns a fixed response or error for every prompt.
type scriptedAgent struct {
	resp *protocol.Response
	err  error
}

func (a *scriptedAgent) Generate(ctx context.Context, messages []agent.Message, opts agent.Options) (*protocol.Response, error) {
	return a.resp, a.err
}

// scriptedTranscriber returns a fixed transcript.
type scriptedTranscriber struct {
	text string
	err  error
}

func (v *scriptedTranscriber) Transcribe(ctx context.Context, audio io.Reader, filetype string) (string, error) {
	return v.text, v.err
}

func newTestService(t *testing.T, rows *repository.MemoryRowStore, reasoner agent.Agent, voice agent.Transcriber) *Service {
	t.Helper()
	svc := NewService(rows, reasoner, voice, nil, nil)
	require.NoError(t, svc.Bootstrap(context.Background()))
	return svc
}

func updateGoalAction(id string, partial map[string]any) protocol.Action {
	return protocol.Action{
		StateKey:  protocol.StateKeyNodes,
		SetterKey: setters.KeyUpdateGoal,
		Args:      []any{id, partial},
	}
}

func sseEvents(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, chunk := range strings.Split(buf.String(), "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		var event map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(chunk, "data: ")), &event))
		out = append(out, event)
	}
	return out
}

func TestBootstrap(t *testing.T) {
	t.Run("BuildsChronologicalChain", func(t *testing.T) {
		rows := repository.NewMemoryRowStore()
		rows.Seed(
			repository.Row{ID: "2025-01-03", Date: "2025-01-03", Goal: "c"},
			repository.Row{ID: "2025-01-01", Date: "2025-01-01", Goal: "a"},
			repository.Row{ID: "2025-01-02", Date: "2025-01-02", Goal: "b"},
		)

		svc := newTestService(t, rows, nil, nil)
		g := svc.Graph()

		require.Len(t, g.Days, 3)
		assert.Equal(t, "2025-01-01", g.Days[0].Date)
		require.Len(t, g.Links, 2)
		assert.Equal(t, "2025-01-01", g.Links[0].Source)
		assert.Equal(t, "2025-01-02", g.Links[0].Target)
	})

	t.Run("SecondBootstrapFails", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRowStore(), nil, nil)
		assert.Error(t, svc.Bootstrap(context.Background()))
	})

	t.Run("ListFailureIsFatal", func(t *testing.T) {
		rows := repository.NewMemoryRowStore()
		rows.SetError(errors.New("connection refused"))
		svc := NewService(rows, nil, nil, nil, nil)
		assert.Error(t, svc.Bootstrap(context.Background()))
	})
}

func TestDispatchAction(t *testing.T) {
	t.Run("UpdateGoalCreatesAndPersistsOnce", func(t *testing.T) {
		rows := repository.NewMemoryRowStore()
		svc := newTestService(t, rows, nil, nil)

		g, err := svc.DispatchAction(context.Background(), updateGoalAction(
			"2025-08-09", map[string]any{"date": "2025-08-09", "goal": "Plan sprint"}))
		require.NoError(t, err)

		require.Len(t, g.Days, 1)
		assert.Equal(t, "Plan sprint", g.Days[0].Goal)
		assert.Equal(t, 1, rows.UpsertCalls())

		stored, err := rows.Get(context.Background(), "2025-08-09")
		require.NoError(t, err)
		assert.Equal(t, "Plan sprint", stored.Goal)
	})

	t.Run("IdenticalRepeatSkipsWrite", func(t *testing.T) {
		rows := repository.NewMemoryRowStore()
		svc := newTestService(t, rows, nil, nil)
		action := updateGoalAction("2025-08-09", map[string]any{"date": "2025-08-09", "goal": "Plan sprint"})

		_, err := svc.DispatchAction(context.Background(), action)
		require.NoError(t, err)
		_, err = svc.DispatchAction(context.Background(), action)
		require.NoError(t, err)

		assert.Equal(t, 1, rows.UpsertCalls(), "unchanged day must not be rewritten")
	})

	t.Run("ChangedFieldWritesAgain", func(t *testing.T) {
		rows := repository.NewMemoryRowStore()
		svc := newTestService(t, rows, nil, nil)

		_, err := svc.DispatchAction(context.Background(), updateGoalAction(
			"2025-08-09", map[string]any{"goal": "Plan sprint"}))
		require.NoError(t, err)
		_, err = svc.DispatchAction(context.Background(), updateGoalAction(
			"2025-08-09", map[string]any{"completed": true}))
		require.NoError(t, err)

		assert.Equal(t, 2, rows.UpsertCalls())
	})

	t.Run("PersistenceFailureDoesNotRollBack", func(t *testing.T) {
		rows := repository.NewMemoryRowStore()
		svc := newTestService(t, rows, nil, nil)
		rows.SetError(errors.New("supabase unavailable"))

		g, err := svc.DispatchAction(context.Background(), updateGoalAction(
			"2025-08-09", map[string]any{"goal": "Plan sprint"}))
		require.NoError(t, err, "the session graph is authoritative")
		assert.Len(t, g.Days, 1)
	})

	t.Run("NonPersistingSetterNeverTouchesRows", func(t *testing.T) {
		rows := repository.NewMemoryRowStore()
		rows.Seed(repository.Row{ID: "2025-01-01", Date: "2025-01-01", Goal: "g"})
		svc := newTestService(t, rows, nil, nil)

		g, err := svc.DispatchAction(context.Background(), protocol.Action{
			StateKey:  protocol.StateKeyNodes,
			SetterKey: setters.KeyMarkGoalComplete,
			Args:      []any{"2025-01-01"},
		})
		require.NoError(t, err)
		assert.True(t, g.Days[0].Completed)
		assert.Equal(t, 0, rows.UpsertCalls())
	})

	t.Run("ValidationErrorLeavesGraphUntouched", func(t *testing.T) {
		rows := repository.NewMemoryRowStore()
		svc := newTestService(t, rows, nil, nil)

		_, err := svc.DispatchAction(context.Background(), protocol.Action{
			StateKey:  protocol.StateKeyNodes,
			SetterKey: setters.KeyCreateDayNode,
			Args:      []any{"not a date", "goal"},
		})
		require.Error(t, err)
		assert.Empty(t, svc.Graph().Days)
	})

	t.Run("UnknownSetterIsProtocolError", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRowStore(), nil, nil)
		_, err := svc.DispatchAction(context.Background(), protocol.Action{
			StateKey:  protocol.StateKeyNodes,
			SetterKey: setters.Key("bogusSetter"),
		})
		assert.Error(t, err)
	})
}

func TestPutDay(t *testing.T) {
	rows := repository.NewMemoryRowStore()
	svc := newTestService(t, rows, nil, nil)

	g, err := svc.PutDay(context.Background(), goal.Day{Date: "2025-01-02", Goal: "edited by hand"})
	require.NoError(t, err)
	require.Len(t, g.Days, 1)
	assert.Equal(t, 1, rows.UpsertCalls())

	// A second day picks up the chronological link like any setter path.
	g, err = svc.PutDay(context.Background(), goal.Day{Date: "2025-01-05", Goal: "later"})
	require.NoError(t, err)
	require.Len(t, g.Links, 1)
	assert.Equal(t, "2025-01-02", g.Links[0].Source)
}

func TestDeleteDay(t *testing.T) {
	rows := repository.NewMemoryRowStore()
	rows.Seed(
		repository.Row{ID: "2025-01-01", Date: "2025-01-01"},
		repository.Row{ID: "2025-01-02", Date: "2025-01-02"},
	)
	svc := newTestService(t, rows, nil, nil)

	t.Run("RemovesDayAndItsLinks", func(t *testing.T) {
		found, err := svc.DeleteDay(context.Background(), "2025-01-02")
		require.NoError(t, err)
		assert.True(t, found)

		g := svc.Graph()
		assert.Len(t, g.Days, 1)
		assert.Empty(t, g.Links)

		_, err = rows.Get(context.Background(), "2025-01-02")
		assert.Error(t, err)
	})

	t.Run("AbsentDayReportsNotFound", func(t *testing.T) {
		found, err := svc.DeleteDay(context.Background(), "2099-12-31")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestChat(t *testing.T) {
	t.Run("ActionBranchMutatesGraph", func(t *testing.T) {
		action, err := protocol.NewAction(setters.KeyUpdateGoal,
			[]any{"2025-08-09", map[string]any{"goal": "Plan sprint"}}, "Setting the goal")
		require.NoError(t, err)

		rows := repository.NewMemoryRowStore()
		svc := newTestService(t, rows, &scriptedAgent{resp: action}, nil)

		resp, err := svc.Chat(context.Background(), "set a goal for aug 9", agent.Options{})
		require.NoError(t, err)
		assert.True(t, resp.IsAction())
		assert.Len(t, svc.Graph().Days, 1)
		assert.Equal(t, 1, rows.UpsertCalls())
	})

	t.Run("MessageBranchLeavesGraphAlone", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRowStore(),
			&scriptedAgent{resp: protocol.NewMessage("nothing to do")}, nil)

		resp, err := svc.Chat(context.Background(), "hello", agent.Options{})
		require.NoError(t, err)
		assert.False(t, resp.IsAction())
		assert.Empty(t, svc.Graph().Days)
	})

	t.Run("GenerationFailurePropagates", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRowStore(),
			&scriptedAgent{err: errors.New("model overloaded")}, nil)
		_, err := svc.Chat(context.Background(), "hi", agent.Options{})
		assert.Error(t, err)
	})

	t.Run("NoAgentConfigured", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRowStore(), nil, nil)
		_, err := svc.Chat(context.Background(), "hi", agent.Options{})
		assert.Error(t, err)
	})
}

func TestHandlePrompt(t *testing.T) {
	t.Run("SuccessStreamsResponseThenComplete", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRowStore(),
			&scriptedAgent{resp: protocol.NewMessage("all set")}, nil)

		var buf bytes.Buffer
		sess := stream.NewWriterSession(context.Background(), &buf, nil)
		svc.HandlePrompt(context.Background(), "hello", agent.Options{}, sess)

		events := sseEvents(t, &buf)
		require.Len(t, events, 3)
		assert.Equal(t, stream.StatusUpdateBegin, events[0]["status"])
		assert.Equal(t, "all set", events[1]["content"])
		assert.Equal(t, stream.StatusUpdateComplete, events[2]["status"])
	})

	t.Run("FailureStreamsSingleError", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRowStore(),
			&scriptedAgent{err: errors.New("model overloaded")}, nil)

		var buf bytes.Buffer
		sess := stream.NewWriterSession(context.Background(), &buf, nil)
		svc.HandlePrompt(context.Background(), "hello", agent.Options{}, sess)

		events := sseEvents(t, &buf)
		require.Len(t, events, 2)
		assert.Equal(t, stream.EventError, events[1]["type"])
	})
}

func TestHandleVoice(t *testing.T) {
	t.Run("TranscriptPrecedesResponse", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRowStore(),
			&scriptedAgent{resp: protocol.NewMessage("noted")},
			&scriptedTranscriber{text: "what did I plan today"})

		var buf bytes.Buffer
		sess := stream.NewWriterSession(context.Background(), &buf, nil)
		svc.HandleVoice(context.Background(), strings.NewReader("audio"), "webm", agent.Options{}, sess)

		events := sseEvents(t, &buf)
		require.Len(t, events, 4)
		assert.Equal(t, stream.EventTranscription, events[1]["type"])
		assert.Equal(t, "what did I plan today", events[1]["text"])
		assert.Equal(t, stream.EventResponse, events[2]["type"])
	})

	t.Run("TranscriptionFailureEndsStream", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRowStore(),
			&scriptedAgent{resp: protocol.NewMessage("unreached")},
			&scriptedTranscriber{err: errors.New("bad audio")})

		var buf bytes.Buffer
		sess := stream.NewWriterSession(context.Background(), &buf, nil)
		svc.HandleVoice(context.Background(), strings.NewReader("audio"), "webm", agent.Options{}, sess)

		events := sseEvents(t, &buf)
		require.Len(t, events, 2)
		assert.Equal(t, stream.EventError, events[1]["type"])
	})

	t.Run("NoTranscriberConfigured", func(t *testing.T) {
		svc := newTestService(t, repository.NewMemoryRowStore(),
			&scriptedAgent{resp: protocol.NewMessage("unreached")}, nil)

		var buf bytes.Buffer
		sess := stream.NewWriterSession(context.Background(), &buf, nil)
		svc.HandleVoice(context.Background(), strings.NewReader("audio"), "webm", agent.Options{}, sess)

		events := sseEvents(t, &buf)
		require.Len(t, events, 2)
		assert.Equal(t, stream.EventError, events[1]["type"])
	})
}
