package agent

import (
	"context"
	"regexp"
	"strings"
	"time"

	"dailygoals-backend/internal/protocol"
	"dailygoals-backend/internal/setters"
)

// MockAgent provides canned protocol responses based on simple pattern
// matching. It backs local development when no inference endpoint is
// configured.
type MockAgent struct{}

// NewMockAgent creates the mock.
func NewMockAgent() *MockAgent {
	return &MockAgent{}
}

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Generate answers goal-creation prompts with an updateGoal action and
// everything else with a plain message.
func (m *MockAgent) Generate(ctx context.Context, messages []Message, opts Options) (*protocol.Response, error) {
	prompt := ""
	if len(messages) > 0 {
		prompt = messages[len(messages)-1].Content
	}

	lower := strings.ToLower(prompt)
	if strings.Contains(lower, "goal") && (strings.Contains(lower, "create") || strings.Contains(lower, "add") || strings.Contains(lower, "set")) {
		date := datePattern.FindString(prompt)
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		return protocol.NewAction(setters.KeyUpdateGoal, []any{
			date,
			map[string]any{"date": date, "goal": prompt},
		}, "Created a goal for "+date)
	}

	return protocol.NewMessage("I can create goals, add todos and set summaries. Tell me what to change."), nil
}
