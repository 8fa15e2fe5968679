package assistant

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	nodex "github.com/tanpawarit/story-slammer/agent/nodes/assistant"
)

func (e *Engine) compileResponseGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, string], error) {
	graph := compose.NewGraph[nodex.GraphInput, string]()

	if err := graph.AddLambdaNode(nodex.NodeValidateRequest,
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, e.baseRequest())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeValidateRequest, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeCallModel,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CallModel(ctx, in, e.model)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeCallModel, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeToolRoundTrip,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.ToolRoundTrip(ctx, in, e.model, e.tools, e.notify)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeToolRoundTrip, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeFinalText,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.FinalText(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeFinalText, err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.RouteResponse(in)
		},
		map[string]bool{
			nodex.NodeToolRoundTrip: true,
			nodex.NodeFinalText:     true,
		},
	)
	if err := graph.AddBranch(nodex.NodeCallModel, branch); err != nil {
		return nil, fmt.Errorf("add branch after %s: %w", nodex.NodeCallModel, err)
	}

	edges := [][2]string{
		{compose.START, nodex.NodeValidateRequest},
		{nodex.NodeValidateRequest, nodex.NodeCallModel},
		{nodex.NodeToolRoundTrip, compose.END},
		{nodex.NodeFinalText, compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("assistant.get_response"))
	if err != nil {
		return nil, fmt.Errorf("%w: compile assistant graph: %v", contractx.ErrValidation, err)
	}
	return runner, nil
}

func (s *Summarizer) compileSummaryGraph(
	ctx context.Context,
) (compose.Runnable[[]contractx.Turn, string], error) {
	graph := compose.NewGraph[[]contractx.Turn, string]()

	if err := graph.AddLambdaNode("call_model",
		compose.InvokableLambda(func(ctx context.Context, turns []contractx.Turn) (contractx.ModelResponse, error) {
			return s.call(ctx, turns)
		}),
	); err != nil {
		return nil, fmt.Errorf("add summary node call_model: %w", err)
	}

	if err := graph.AddLambdaNode("first_text",
		compose.InvokableLambda(func(ctx context.Context, resp contractx.ModelResponse) (string, error) {
			text, ok := resp.FirstText()
			if !ok {
				return "", fmt.Errorf("%w: summary response has no text block", contractx.ErrModelService)
			}
			return text, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add summary node first_text: %w", err)
	}

	edges := [][2]string{
		{compose.START, "call_model"},
		{"call_model", "first_text"},
		{"first_text", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add summary edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("assistant.summarize"))
	if err != nil {
		return nil, fmt.Errorf("%w: compile summary graph: %v", contractx.ErrValidation, err)
	}
	return runner, nil
}
