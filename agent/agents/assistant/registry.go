package assistant

import (
	"context"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	llmx "github.com/tanpawarit/story-slammer/agent/llm"
	promptx "github.com/tanpawarit/story-slammer/agent/prompt"
)

// Registry bundles the two model-facing roles of a session.
type Registry struct {
	engine     *Engine
	summarizer *Summarizer
}

func (r *Registry) Engine() *Engine {
	return r.engine
}

func (r *Registry) Summarizer() *Summarizer {
	return r.summarizer
}

func NewRegistry(
	ctx context.Context,
	cfg llmx.Config,
	model contractx.ChatModel,
	tools contractx.ToolExecutor,
	prompts promptx.PromptSet,
	opts ...EngineOption,
) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine, err := NewEngine(ctx, model, tools, EngineConfig{
		Params:       cfg.Params(llmx.CallChat),
		SystemPrompt: prompts.ChatbotSystem,
	}, opts...)
	if err != nil {
		return nil, err
	}

	summarizer, err := NewSummarizer(ctx, model, cfg.Params(llmx.CallSummary), prompts.SummarySystem)
	if err != nil {
		return nil, err
	}

	return &Registry{
		engine:     engine,
		summarizer: summarizer,
	}, nil
}
