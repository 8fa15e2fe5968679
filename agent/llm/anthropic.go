package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

// AnthropicModel serves contract.ChatModel through the Messages API.
type AnthropicModel struct {
	client *anthropicsdk.Client
}

var _ contractx.ChatModel = (*AnthropicModel)(nil)

func NewAnthropicModel(client *anthropicsdk.Client) (*AnthropicModel, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: anthropic client is nil", contractx.ErrValidation)
	}
	return &AnthropicModel{client: client}, nil
}

func (m *AnthropicModel) Complete(ctx context.Context, req contractx.ModelRequest) (contractx.ModelResponse, error) {
	params, err := toMessageParams(req)
	if err != nil {
		return contractx.ModelResponse{}, fmt.Errorf("%w: %v", contractx.ErrModelService, err)
	}

	msg, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return contractx.ModelResponse{}, wrapError(err)
	}

	resp := fromMessage(msg)
	log.Debug().
		Str("model", req.Model).
		Str("stop_reason", string(resp.StopReason)).
		Int("blocks", len(resp.Content)).
		Int64("input_tokens", msg.Usage.InputTokens).
		Int64("output_tokens", msg.Usage.OutputTokens).
		Msg("model call completed")
	return resp, nil
}

func toMessageParams(req contractx.ModelRequest) (anthropicsdk.MessageNewParams, error) {
	messages, err := toMessages(req.Turns)
	if err != nil {
		return anthropicsdk.MessageNewParams{}, err
	}

	params := anthropicsdk.MessageNewParams{
		Model:       anthropicsdk.Model(req.Model),
		MaxTokens:   req.MaxTokens,
		Messages:    messages,
		Temperature: anthropicsdk.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		tools, err := toTools(req.Tools)
		if err != nil {
			return anthropicsdk.MessageNewParams{}, err
		}
		params.Tools = tools
	}
	return params, nil
}

func toMessages(turns []contractx.Turn) ([]anthropicsdk.MessageParam, error) {
	out := make([]anthropicsdk.MessageParam, 0, len(turns))
	for i, turn := range turns {
		blocks := make([]anthropicsdk.ContentBlockParamUnion, 0, len(turn.Content))
		for _, block := range turn.Content {
			param, err := toBlockParam(block)
			if err != nil {
				return nil, fmt.Errorf("turn %d: %w", i, err)
			}
			blocks = append(blocks, param)
		}

		switch turn.Role {
		case contractx.RoleAssistant:
			out = append(out, anthropicsdk.NewAssistantMessage(blocks...))
		case contractx.RoleUser:
			out = append(out, anthropicsdk.NewUserMessage(blocks...))
		default:
			return nil, fmt.Errorf("turn %d: unknown role %q", i, turn.Role)
		}
	}
	return out, nil
}

func toBlockParam(block contractx.ContentBlock) (anthropicsdk.ContentBlockParamUnion, error) {
	switch block.Type {
	case contractx.BlockText:
		return anthropicsdk.NewTextBlock(block.Text), nil
	case contractx.BlockImage:
		if block.Image == nil {
			return anthropicsdk.ContentBlockParamUnion{}, errors.New("image block without payload")
		}
		return anthropicsdk.NewImageBlockBase64(block.Image.MediaType, block.Image.Data), nil
	case contractx.BlockToolUse:
		if block.ToolUse == nil {
			return anthropicsdk.ContentBlockParamUnion{}, errors.New("tool_use block without payload")
		}
		input := block.ToolUse.Input
		if len(input) == 0 {
			input = json.RawMessage(`{}`)
		}
		return anthropicsdk.NewToolUseBlock(block.ToolUse.ID, input, block.ToolUse.Name), nil
	case contractx.BlockToolResult:
		if block.ToolResult == nil {
			return anthropicsdk.ContentBlockParamUnion{}, errors.New("tool_result block without payload")
		}
		return anthropicsdk.NewToolResultBlock(block.ToolResult.ToolUseID, block.ToolResult.Content, block.ToolResult.IsError), nil
	default:
		return anthropicsdk.ContentBlockParamUnion{}, fmt.Errorf("unsupported block type %q", block.Type)
	}
}

// inputSchema is the subset of a JSON schema the Messages API reads for
// tool input.
type inputSchema struct {
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

func toTools(infos []*schema.ToolInfo) ([]anthropicsdk.ToolUnionParam, error) {
	out := make([]anthropicsdk.ToolUnionParam, 0, len(infos))
	for _, info := range infos {
		if info == nil {
			continue
		}

		var in inputSchema
		if info.ParamsOneOf != nil {
			js, err := info.ParamsOneOf.ToJSONSchema()
			if err != nil {
				return nil, fmt.Errorf("tool %s: build input schema: %w", info.Name, err)
			}
			raw, err := json.Marshal(js)
			if err != nil {
				return nil, fmt.Errorf("tool %s: encode input schema: %w", info.Name, err)
			}
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, fmt.Errorf("tool %s: decode input schema: %w", info.Name, err)
			}
		}
		if in.Properties == nil {
			in.Properties = map[string]any{}
		}

		param := anthropicsdk.ToolUnionParamOfTool(anthropicsdk.ToolInputSchemaParam{
			Properties: in.Properties,
			Required:   in.Required,
		}, info.Name)
		if param.OfTool != nil && info.Desc != "" {
			param.OfTool.Description = anthropicsdk.String(info.Desc)
		}
		out = append(out, param)
	}
	return out, nil
}

func fromMessage(msg *anthropicsdk.Message) contractx.ModelResponse {
	if msg == nil {
		return contractx.ModelResponse{}
	}
	resp := contractx.ModelResponse{
		StopReason: contractx.StopReason(msg.StopReason),
		Content:    make([]contractx.ContentBlock, 0, len(msg.Content)),
	}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			resp.Content = append(resp.Content, contractx.TextBlock(block.Text))
		case "tool_use":
			input := append(json.RawMessage(nil), block.Input...)
			resp.Content = append(resp.Content, contractx.ToolUseBlock(block.ID, block.Name, input))
		default:
			log.Debug().Str("type", block.Type).Msg("ignoring unsupported response block")
		}
	}
	return resp
}

func wrapError(err error) error {
	var apiErr *anthropicsdk.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status=%d request_id=%s: %v", contractx.ErrModelService, apiErr.StatusCode, apiErr.RequestID, err)
	}
	return fmt.Errorf("%w: %v", contractx.ErrModelService, err)
}
