package assistantnode

import (
	"fmt"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

const (
	NodeValidateRequest = "validate_request"
	NodeCallModel       = "call_model"
	NodeToolRoundTrip   = "tool_round_trip"
	NodeFinalText       = "final_text"
)

type GraphInput struct {
	Conversation contractx.Conversation
}

type GraphState struct {
	Conversation contractx.Conversation
	Request      contractx.ModelRequest
	Response     contractx.ModelResponse
}

// ValidateRequest checks the history is ready for a model call and copies
// the fixed call parameters into the graph state.
func ValidateRequest(in GraphInput, base contractx.ModelRequest) (*GraphState, error) {
	if in.Conversation == nil {
		return nil, fmt.Errorf("%w: conversation is nil", contractx.ErrValidation)
	}

	history := in.Conversation.History()
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: conversation is empty", contractx.ErrValidation)
	}
	if last := history[len(history)-1]; last.Role != contractx.RoleUser {
		return nil, fmt.Errorf("%w: last turn must come from the user, got %s", contractx.ErrValidation, last.Role)
	}

	return &GraphState{
		Conversation: in.Conversation,
		Request:      base,
	}, nil
}
