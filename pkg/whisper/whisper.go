package whisper

import (
	"errors"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultModel = "whisper-1"

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	TranscriptionModel string        `envconfig:"TRANSCRIPTION_MODEL" split_words:"true" default:"whisper-1"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10m"`
}

// Model returns the configured transcription model or the default.
func (c Config) Model() string {
	if m := strings.TrimSpace(c.TranscriptionModel); m != "" {
		return m
	}
	return DefaultModel
}

// NewClient creates an OpenAI SDK client used only for audio transcription.
func NewClient(cfg Config) (*openaisdk.Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required for transcription")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	client := openaisdk.NewClient(opts...)
	return &client, nil
}
