// Package protocol implements the command/response schema spoken by the
// reasoning agent. An agent turn is either a plain message or an action
// that names a registered setter; nothing else is dispatched.
//
// Validation here is intentionally shallow: the protocol checks the
// response tag, the state key, and that the setter key is a member of the
// registry. Argument arity and typing belong to the invoked setter.
package protocol

import (
	"encoding/json"
	"fmt"

	"dailygoals-backend/internal/setters"
	appErrors "dailygoals-backend/pkg/errors"
)

const (
	// TypeMessage and TypeAction are the two response tags.
	TypeMessage = "message"
	TypeAction  = "action"

	// StateKeyNodes is the only mutable collection the agent may target.
	StateKeyNodes = "nodes"

	// RoleAssistant is the fixed role on message responses.
	RoleAssistant = "assistant"
)

// Action requests invocation of a registered setter against the day graph.
type Action struct {
	StateKey  string      `json:"stateKey"`
	SetterKey setters.Key `json:"setterKey"`
	Args      []any       `json:"args"`
}

// Response is the tagged union of the two possible agent replies. Exactly
// one branch is populated: Action for an action response, Content/Role for
// a message response. Content may accompany an action as a human-readable
// description of it.
type Response struct {
	Type    string  `json:"type"`
	Content string  `json:"content,omitempty"`
	Role    string  `json:"role,omitempty"`
	Action  *Action `json:"-"`
}

// State is the per-request protocol state. Each request is independent;
// there is no multi-turn protocol state beyond the conversation history
// owned by the agent.
type State int

const (
	StateIdle State = iota
	StateDispatched
	StateReplied
)

// State returns the terminal protocol state a well-formed response moves
// the request into.
func (r *Response) State() State {
	if r == nil {
		return StateIdle
	}
	if r.Type == TypeAction {
		return StateDispatched
	}
	return StateReplied
}

// IsAction reports whether the action branch is populated.
func (r *Response) IsAction() bool {
	return r.Type == TypeAction && r.Action != nil
}

// wireResponse is the flat JSON shape both branches share on the wire.
type wireResponse struct {
	Type      string      `json:"type"`
	Content   string      `json:"content,omitempty"`
	Role      string      `json:"role,omitempty"`
	StateKey  string      `json:"stateKey,omitempty"`
	SetterKey setters.Key `json:"setterKey,omitempty"`
	Args      []any       `json:"args"`
}

// Parse decodes and validates a raw agent response. A malformed shape or
// an unknown setter key is a protocol parse error, distinct from a setter
// execution no-op; the caller surfaces it as a terminal error and never
// retries.
func Parse(data []byte) (*Response, error) {
	var wire wireResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, appErrors.NewProtocol(fmt.Sprintf("response is not valid JSON: %v", err))
	}
	return fromWire(wire)
}

func fromWire(wire wireResponse) (*Response, error) {
	switch wire.Type {
	case TypeMessage:
		return &Response{
			Type:    TypeMessage,
			Content: wire.Content,
			Role:    RoleAssistant,
		}, nil

	case TypeAction:
		if wire.StateKey != StateKeyNodes {
			return nil, appErrors.NewProtocol(fmt.Sprintf("unknown state key %q", wire.StateKey))
		}
		if !setters.IsRegistered(wire.SetterKey) {
			return nil, appErrors.NewProtocol(fmt.Sprintf("unknown setter key %q", wire.SetterKey))
		}
		args := wire.Args
		if args == nil {
			args = []any{}
		}
		return &Response{
			Type:    TypeAction,
			Content: wire.Content,
			Action: &Action{
				StateKey:  wire.StateKey,
				SetterKey: wire.SetterKey,
				Args:      args,
			},
		}, nil

	default:
		return nil, appErrors.NewProtocol(fmt.Sprintf("response type %q matches neither branch", wire.Type))
	}
}

// NewMessage builds a message-branch response.
func NewMessage(content string) *Response {
	return &Response{Type: TypeMessage, Content: content, Role: RoleAssistant}
}

// NewAction builds an action-branch response after validating the setter
// key against the registry.
func NewAction(setterKey setters.Key, args []any, content string) (*Response, error) {
	if !setters.IsRegistered(setterKey) {
		return nil, appErrors.NewProtocol(fmt.Sprintf("unknown setter key %q", setterKey))
	}
	if args == nil {
		args = []any{}
	}
	return &Response{
		Type:    TypeAction,
		Content: content,
		Action:  &Action{StateKey: StateKeyNodes, SetterKey: setterKey, Args: args},
	}, nil
}

// MarshalJSON flattens the populated branch back onto the wire shape.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.IsAction() {
		return json.Marshal(wireResponse{
			Type:      TypeAction,
			Content:   r.Content,
			StateKey:  r.Action.StateKey,
			SetterKey: r.Action.SetterKey,
			Args:      r.Action.Args,
		})
	}
	return json.Marshal(struct {
		Type    string `json:"type"`
		Content string `json:"content"`
		Role    string `json:"role"`
	}{Type: TypeMessage, Content: r.Content, Role: RoleAssistant})
}
