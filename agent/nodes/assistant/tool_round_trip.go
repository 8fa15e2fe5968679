package assistantnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

// AnotherLookupNeeded answers a follow-up that only asks for a second tool.
const AnotherLookupNeeded = "I need another lookup to answer that; please ask again."

// Notify reports progress to the user. It may be nil.
type Notify func(text string)

// ToolRoundTrip runs the requested tool once and asks the model again. A
// second tool request is not executed; its text, if any, is the answer.
func ToolRoundTrip(
	ctx context.Context,
	in *GraphState,
	model contractx.ChatModel,
	tools contractx.ToolExecutor,
	notify Notify,
) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	last, ok := in.Response.LastBlock()
	if !ok || last.Type != contractx.BlockToolUse || last.ToolUse == nil {
		return "", fmt.Errorf("%w: tool_use stop without a tool invocation block", contractx.ErrModelService)
	}
	call := last.ToolUse

	if err := in.Conversation.Append(contractx.Turn{
		Role:    contractx.RoleAssistant,
		Content: in.Response.Content,
	}); err != nil {
		return "", err
	}

	if notify != nil {
		notify(fmt.Sprintf("Model requested the %s tool", call.Name))
	}
	content, isError := tools.Execute(ctx, call.Name, call.Input)
	log.Debug().
		Str("tool", call.Name).
		Str("tool_use_id", call.ID).
		Bool("is_error", isError).
		Int("content_length", len(content)).
		Msg("tool executed")
	if notify != nil && !isError {
		notify(fmt.Sprintf("Fetched tool result with content length %d", len(content)))
	}

	if err := in.Conversation.Append(contractx.Turn{
		Role:    contractx.RoleUser,
		Content: []contractx.ContentBlock{contractx.ToolResultBlock(call.ID, content, isError)},
	}); err != nil {
		return "", err
	}

	resp, err := complete(ctx, in, model)
	if err != nil {
		return "", err
	}
	in.Response = resp

	if resp.StopReason == contractx.StopToolUse {
		log.Debug().Str("tool", call.Name).Msg("follow-up requested another tool; not executed")
		if _, ok := resp.FirstText(); !ok {
			return AnotherLookupNeeded, nil
		}
	}
	return FinalText(in)
}
