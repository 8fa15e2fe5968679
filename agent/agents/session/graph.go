package session

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	nodex "github.com/tanpawarit/story-slammer/agent/nodes/session"
)

func (s *Service) compileGatherGraph(
	ctx context.Context,
) (compose.Runnable[nodex.Inputs, contractx.Turn], error) {
	graph := compose.NewGraph[nodex.Inputs, contractx.Turn]()

	if err := graph.AddLambdaNode(nodex.NodeValidateInputs,
		compose.InvokableLambda(func(ctx context.Context, in nodex.Inputs) (*nodex.GraphState, error) {
			return nodex.ValidateInputs(in, s.transcriber != nil)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeValidateInputs, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeFetchIssues,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.FetchIssues(ctx, in, s.issues)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeFetchIssues, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeLoadImages,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadImages(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeLoadImages, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeReadNotes,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ReadNotes(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeReadNotes, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeTranscribeRecording,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.TranscribeRecording(ctx, in, s.transcriber)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeTranscribeRecording, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeBuildSeedTurn,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (contractx.Turn, error) {
			return nodex.BuildSeedTurn(in, s.prompts.SummaryPrompt())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeBuildSeedTurn, err)
	}

	edges := [][2]string{
		{compose.START, nodex.NodeValidateInputs},
		{nodex.NodeValidateInputs, nodex.NodeFetchIssues},
		{nodex.NodeFetchIssues, nodex.NodeLoadImages},
		{nodex.NodeLoadImages, nodex.NodeReadNotes},
		{nodex.NodeReadNotes, nodex.NodeTranscribeRecording},
		{nodex.NodeTranscribeRecording, nodex.NodeBuildSeedTurn},
		{nodex.NodeBuildSeedTurn, compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("session.gather"))
	if err != nil {
		return nil, fmt.Errorf("compile gather graph: %w", err)
	}
	return runner, nil
}
