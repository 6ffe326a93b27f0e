// Package goals provides the business logic tying the day graph, the
// setter registry, the command protocol and the row store together. It is
// the only layer that runs setters and the only layer that talks to
// persistence.
package goals

import (
	"context"
	"io"

	"go.uber.org/zap"

	"dailygoals-backend/internal/agent"
	"dailygoals-backend/internal/domain/goal"
	"dailygoals-backend/internal/graph"
	"dailygoals-backend/internal/protocol"
	"dailygoals-backend/internal/repository"
	"dailygoals-backend/internal/setters"
	"dailygoals-backend/internal/stream"
	appErrors "dailygoals-backend/pkg/errors"
	"dailygoals-backend/pkg/observability"
)

// Service orchestrates one editing session over the day graph.
type Service struct {
	store   *graph.Store
	rows    repository.RowStore
	agent   agent.Agent
	voice   agent.Transcriber
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewService wires the service. The graph store is created by Bootstrap;
// agent and voice may be nil when the corresponding surface is disabled.
func NewService(rows repository.RowStore, reasoner agent.Agent, voice agent.Transcriber, metrics *observability.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &Service{
		rows:    rows,
		agent:   reasoner,
		voice:   voice,
		metrics: metrics,
		logger:  logger.Named("GoalsService"),
	}
}

// Bootstrap populates the session graph from the full row listing: days
// sorted ascending, linked into a chronological chain. It runs once per
// process.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.store != nil {
		return appErrors.NewInternal("session graph already bootstrapped", nil)
	}

	rows, err := s.rows.List(ctx)
	if err != nil {
		return appErrors.Wrap(err, "failed to load daily goals")
	}

	days := make([]goal.Day, 0, len(rows))
	for _, row := range rows {
		days = append(days, row.Day())
	}

	links := goal.ChainLinks(days)
	s.store = graph.NewStore(goal.Graph{Days: days, Links: links})

	s.logger.Info("session graph bootstrapped",
		zap.Int("days", len(days)),
		zap.Int("links", len(links)),
	)
	return nil
}

// Graph returns the current session graph.
func (s *Service) Graph() goal.Graph {
	return s.store.Current()
}

// GetDay returns one day by date key.
func (s *Service) GetDay(date string) (goal.Day, error) {
	g := s.store.Current()
	i := g.FindDay(date)
	if i < 0 {
		return goal.Day{}, appErrors.NewNotFound("no day for date " + date)
	}
	return g.Days[i], nil
}

// PutDay is the human editor's upsert. It runs through the updateGoal
// setter so the create path picks up the chronological link, then
// persists with the same diff guard the agent path uses.
func (s *Service) PutDay(ctx context.Context, day goal.Day) (goal.Graph, error) {
	partial := map[string]any{
		"date":      day.Date,
		"goal":      day.Goal,
		"completed": day.Completed,
		"todos":     day.Todos,
	}
	if day.Summary != nil {
		partial["summary"] = *day.Summary
	}
	action := protocol.Action{
		StateKey:  protocol.StateKeyNodes,
		SetterKey: setters.KeyUpdateGoal,
		Args:      []any{day.Date, partial},
	}
	return s.DispatchAction(ctx, action)
}

// DeleteDay removes a day from the session graph along with its links,
// then deletes the stored row best-effort. There is no setter for
// deletion; this is a human-editor operation.
func (s *Service) DeleteDay(ctx context.Context, date string) (bool, error) {
	found := false
	s.store.Apply(func(g goal.Graph) goal.Graph {
		i := g.FindDay(date)
		if i < 0 {
			return g
		}
		found = true
		g.Days = append(g.Days[:i], g.Days[i+1:]...)
		links := g.Links[:0]
		for _, l := range g.Links {
			if l.Source != date && l.Target != date {
				links = append(links, l)
			}
		}
		g.Links = links
		return g
	})
	if !found {
		return false, nil
	}

	if _, err := s.rows.Delete(ctx, date); err != nil {
		s.metrics.PersistenceFailures.Inc()
		s.logger.Warn("failed to delete stored row", zap.String("date", date), zap.Error(err))
	}
	return true, nil
}

// DispatchAction resolves the action's setter, executes it atomically
// against the session graph, and performs the persistence side effect it
// requested. Missing referents inside a setter are silent no-ops; only
// malformed arguments surface as errors.
func (s *Service) DispatchAction(ctx context.Context, action protocol.Action) (goal.Graph, error) {
	setter, ok := setters.Lookup(action.SetterKey)
	if !ok {
		return goal.Graph{}, appErrors.NewProtocol("unknown setter key " + string(action.SetterKey))
	}

	var (
		result  setters.Result
		execErr error
	)
	next := s.store.Apply(func(g goal.Graph) goal.Graph {
		result, execErr = setter.Execute(g, action.Args)
		if execErr != nil {
			return g
		}
		return result.Graph
	})
	if execErr != nil {
		s.metrics.SetterFailures.WithLabelValues(string(setter.Key)).Inc()
		return goal.Graph{}, execErr
	}
	s.metrics.SetterExecutions.WithLabelValues(string(setter.Key)).Inc()

	if result.Persist != nil {
		s.persist(ctx, *result.Persist)
	}
	return next, nil
}

// persist synchronizes one day with the row store. The stored row is
// fetched and compared field by field; an identical row skips the write
// entirely so downstream change notifications stay quiet. Failures are
// warnings: the in-memory mutation is authoritative for the session.
func (s *Service) persist(ctx context.Context, day goal.Day) {
	candidate := repository.RowFromDay(day)

	existing, err := s.rows.Get(ctx, day.Date)
	if err != nil && !appErrors.IsNotFound(err) {
		s.logger.Warn("failed to fetch stored row for diff",
			zap.String("date", day.Date), zap.Error(err))
	}
	if existing != nil && existing.Equal(candidate) {
		s.metrics.PersistenceSkips.Inc()
		return
	}

	if _, err := s.rows.Upsert(ctx, candidate); err != nil {
		s.metrics.PersistenceFailures.Inc()
		s.logger.Warn("failed to upsert daily goal",
			zap.String("date", day.Date), zap.Error(err))
		return
	}
	s.metrics.PersistenceWrites.Inc()
}

// Chat services one prompt without streaming: generate, validate, and
// dispatch the action branch when present.
func (s *Service) Chat(ctx context.Context, prompt string, opts agent.Options) (*protocol.Response, error) {
	if s.agent == nil {
		return nil, appErrors.NewInternal("no reasoning agent configured", nil)
	}

	messages := []agent.Message{{Role: "user", Content: prompt}}
	resp, err := s.agent.Generate(ctx, messages, opts)
	if err != nil {
		return nil, appErrors.Wrap(err, "agent generation failed")
	}

	if resp.IsAction() {
		if _, err := s.DispatchAction(ctx, *resp.Action); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// HandlePrompt services one prompt as a streaming session: the opening
// stage marker, the terminal response or a single error event, and the
// closing stage marker only on success.
func (s *Service) HandlePrompt(ctx context.Context, prompt string, opts agent.Options, sess *stream.Session) {
	defer sess.Close()
	s.metrics.StreamSessions.Inc()

	if err := sess.Begin(); err != nil {
		s.logger.Warn("failed to open stream", zap.Error(err))
		return
	}

	resp, err := s.Chat(ctx, prompt, opts)
	if err != nil {
		s.metrics.StreamErrors.Inc()
		sess.Fail(err)
		return
	}

	if err := sess.Respond(resp); err != nil {
		s.logger.Warn("failed to write terminal event", zap.Error(err))
	}
}

// HandleVoice services one audio submission: transcribe, surface the
// transcript as an intermediate event, then run the prompt flow on it.
func (s *Service) HandleVoice(ctx context.Context, audio io.Reader, filetype string, opts agent.Options, sess *stream.Session) {
	defer sess.Close()
	s.metrics.StreamSessions.Inc()

	if err := sess.Begin(); err != nil {
		s.logger.Warn("failed to open stream", zap.Error(err))
		return
	}

	if s.voice == nil {
		s.metrics.StreamErrors.Inc()
		sess.Fail(appErrors.NewInternal("no transcriber configured", nil))
		return
	}

	transcript, err := s.voice.Transcribe(ctx, audio, filetype)
	if err != nil {
		s.metrics.StreamErrors.Inc()
		sess.Fail(appErrors.Wrap(err, "transcription failed"))
		return
	}
	if err := sess.Transcription(transcript); err != nil {
		s.logger.Warn("failed to write transcription event", zap.Error(err))
		return
	}

	resp, err := s.Chat(ctx, transcript, opts)
	if err != nil {
		s.metrics.StreamErrors.Inc()
		sess.Fail(err)
		return
	}

	if err := sess.Respond(resp); err != nil {
		s.logger.Warn("failed to write terminal event", zap.Error(err))
	}
}
