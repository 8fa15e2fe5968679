package assistant

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	nodex "github.com/tanpawarit/story-slammer/agent/nodes/assistant"
)

// EngineConfig carries the fixed parameters of every chat call.
type EngineConfig struct {
	Params       contractx.ModelRequest
	SystemPrompt string
}

type EngineOption func(*Engine)

// WithNotify receives short progress notes while a tool runs.
func WithNotify(fn func(text string)) EngineOption {
	return func(e *Engine) {
		e.notify = fn
	}
}

// Engine answers the latest user turn, running at most one tool round trip.
type Engine struct {
	model  contractx.ChatModel
	tools  contractx.ToolExecutor
	cfg    EngineConfig
	notify nodex.Notify

	runner compose.Runnable[nodex.GraphInput, string]
}

func NewEngine(
	ctx context.Context,
	model contractx.ChatModel,
	tools contractx.ToolExecutor,
	cfg EngineConfig,
	opts ...EngineOption,
) (*Engine, error) {
	if model == nil {
		return nil, errors.New("chat model is required")
	}
	if tools == nil {
		return nil, errors.New("tool executor is required")
	}

	e := &Engine{
		model: model,
		tools: tools,
		cfg:   cfg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	runner, err := e.compileResponseGraph(ctx)
	if err != nil {
		return nil, err
	}
	e.runner = runner
	return e, nil
}

// GetResponse sends the conversation to the model and returns the answer
// text. Tool invocations and their results are appended to conv; the final
// answer is not.
func (e *Engine) GetResponse(ctx context.Context, conv contractx.Conversation) (string, error) {
	out, err := e.runner.Invoke(ctx, nodex.GraphInput{Conversation: conv})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (e *Engine) baseRequest() contractx.ModelRequest {
	req := e.cfg.Params
	req.System = e.cfg.SystemPrompt
	req.Tools = e.tools.Descriptors()
	return req
}
