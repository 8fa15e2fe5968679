package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

const DefaultFFmpegPath = "ffmpeg"

// AudioExtractor writes the audio track of src to dst as MP3.
type AudioExtractor interface {
	Extract(ctx context.Context, src, dst string) error
}

// FFmpeg extracts audio by running the ffmpeg binary.
type FFmpeg struct {
	Path string
}

func (f FFmpeg) Extract(ctx context.Context, src, dst string) error {
	bin := strings.TrimSpace(f.Path)
	if bin == "" {
		bin = DefaultFFmpegPath
	}
	cmd := exec.CommandContext(ctx, bin, "-hide_banner", "-loglevel", "error", "-y", "-i", src, "-vn", "-acodec", "libmp3lame", dst)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// WhisperTranscriber turns a recording into text with OpenAI Whisper.
type WhisperTranscriber struct {
	client    *openaisdk.Client
	model     string
	extractor AudioExtractor
}

var _ contractx.Transcriber = (*WhisperTranscriber)(nil)

func NewWhisperTranscriber(client *openaisdk.Client, model string, extractor AudioExtractor) (*WhisperTranscriber, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is nil", contractx.ErrValidation)
	}
	if strings.TrimSpace(model) == "" {
		model = string(openaisdk.AudioModelWhisper1)
	}
	if extractor == nil {
		extractor = FFmpeg{}
	}
	return &WhisperTranscriber{client: client, model: model, extractor: extractor}, nil
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, recordingPath string) (string, error) {
	if err := CheckRecording(recordingPath); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "story-slammer-*.mp3")
	if err != nil {
		return "", fmt.Errorf("%w: create temp audio: %v", contractx.ErrTranscription, err)
	}
	audioPath := tmp.Name()
	_ = tmp.Close()
	defer func() {
		if err := os.Remove(audioPath); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", audioPath).Msg("failed to remove temp audio")
		}
	}()

	if err := w.extractor.Extract(ctx, recordingPath, audioPath); err != nil {
		return "", fmt.Errorf("%w: extract audio from %s: %v", contractx.ErrTranscription, recordingPath, err)
	}

	audio, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: open extracted audio: %v", contractx.ErrTranscription, err)
	}
	defer audio.Close()

	out, err := w.client.Audio.Transcriptions.New(ctx, openaisdk.AudioTranscriptionNewParams{
		File:  audio,
		Model: openaisdk.AudioModel(w.model),
	})
	if err != nil {
		return "", fmt.Errorf("%w: whisper: %v", contractx.ErrTranscription, err)
	}

	log.Debug().Str("recording", recordingPath).Int("chars", len(out.Text)).Msg("recording transcribed")
	return out.Text, nil
}
