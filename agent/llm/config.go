package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	anthropicx "github.com/tanpawarit/story-slammer/pkg/anthropic"
)

// CallKind selects the token budget for a model call.
type CallKind string

const (
	CallChat    CallKind = "chat"
	CallSummary CallKind = "summary"
)

type Config struct {
	BaseURL          string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey           string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model            string        `envconfig:"MODEL" split_words:"true" default:"claude-3-5-sonnet-20240620"`
	Temperature      float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.6"`
	ChatMaxTokens    int64         `envconfig:"CHAT_MAX_TOKENS" split_words:"true" default:"1000"`
	SummaryMaxTokens int64         `envconfig:"SUMMARY_MAX_TOKENS" split_words:"true" default:"4096"`
	Timeout          time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"120s"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: anthropic api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("%w: temperature must be within [0,1], got %v", contractx.ErrValidation, c.Temperature)
	}
	if c.ChatMaxTokens <= 0 || c.SummaryMaxTokens <= 0 {
		return fmt.Errorf("%w: max tokens must be positive", contractx.ErrValidation)
	}
	return nil
}

func (c Config) ClientConfig() anthropicx.Config {
	return anthropicx.Config{
		BaseURL: strings.TrimSpace(c.BaseURL),
		APIKey:  strings.TrimSpace(c.APIKey),
		Timeout: c.Timeout,
	}
}

// Params fills the model settings for kind. Callers add system prompt,
// turns and tools.
func (c Config) Params(kind CallKind) contractx.ModelRequest {
	maxTokens := c.ChatMaxTokens
	if kind == CallSummary {
		maxTokens = c.SummaryMaxTokens
	}
	return contractx.ModelRequest{
		Model:       strings.TrimSpace(c.Model),
		MaxTokens:   maxTokens,
		Temperature: c.Temperature,
	}
}
