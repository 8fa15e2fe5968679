package assistantnode

import (
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

// FinalText returns the first text block of the latest response.
func FinalText(in *GraphState) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	text, ok := in.Response.FirstText()
	if !ok {
		return "", fmt.Errorf("%w: response has no text block (stop_reason=%s)", contractx.ErrModelService, in.Response.StopReason)
	}
	if in.Response.StopReason == contractx.StopMaxTokens {
		log.Warn().Int("chars", len(text)).Msg("answer cut off at the token limit")
	}
	return text, nil
}
