package assistantnode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

func CallModel(ctx context.Context, in *GraphState, model contractx.ChatModel) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	resp, err := complete(ctx, in, model)
	if err != nil {
		return nil, err
	}
	in.Response = resp
	return in, nil
}

// RouteResponse picks the next node from the stop reason.
func RouteResponse(in *GraphState) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Response.StopReason == contractx.StopToolUse {
		return NodeToolRoundTrip, nil
	}
	return NodeFinalText, nil
}

func complete(ctx context.Context, in *GraphState, model contractx.ChatModel) (contractx.ModelResponse, error) {
	req := in.Request
	req.Turns = in.Conversation.History()

	resp, err := model.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, contractx.ErrModelService) {
			return contractx.ModelResponse{}, err
		}
		return contractx.ModelResponse{}, fmt.Errorf("%w: %v", contractx.ErrModelService, err)
	}
	return resp, nil
}
