package sessionnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

func TranscribeRecording(ctx context.Context, in *GraphState, transcriber contractx.Transcriber) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Inputs.RecordingPath == "" {
		return in, nil
	}
	if transcriber == nil {
		return nil, fmt.Errorf("%w: no transcriber configured", contractx.ErrTranscription)
	}

	text, err := transcriber.Transcribe(ctx, in.Inputs.RecordingPath)
	if err != nil {
		return nil, err
	}
	in.Transcript = text

	log.Debug().Str("recording", in.Inputs.RecordingPath).Int("chars", len(text)).Msg("recording transcribed")
	return in, nil
}
