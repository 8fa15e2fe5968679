package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

// Summarizer produces the initial summary with a single tool-free call.
type Summarizer struct {
	model  contractx.ChatModel
	params contractx.ModelRequest
	system string

	runner compose.Runnable[[]contractx.Turn, string]
}

func NewSummarizer(ctx context.Context, model contractx.ChatModel, params contractx.ModelRequest, systemPrompt string) (*Summarizer, error) {
	if model == nil {
		return nil, errors.New("chat model is required")
	}
	s := &Summarizer{
		model:  model,
		params: params,
		system: systemPrompt,
	}
	runner, err := s.compileSummaryGraph(ctx)
	if err != nil {
		return nil, err
	}
	s.runner = runner
	return s, nil
}

func (s *Summarizer) Summarize(ctx context.Context, turns []contractx.Turn) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("%w: nothing to summarize", contractx.ErrValidation)
	}
	out, err := s.runner.Invoke(ctx, turns)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (s *Summarizer) call(ctx context.Context, turns []contractx.Turn) (contractx.ModelResponse, error) {
	req := s.params
	req.System = s.system
	req.Turns = turns
	req.Tools = nil

	resp, err := s.model.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, contractx.ErrModelService) {
			return contractx.ModelResponse{}, err
		}
		return contractx.ModelResponse{}, fmt.Errorf("%w: %v", contractx.ErrModelService, err)
	}
	return resp, nil
}
