package sessionnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	mediax "github.com/tanpawarit/story-slammer/agent/media"
	"github.com/tanpawarit/story-slammer/agent/tracker"
)

const (
	NodeValidateInputs      = "validate_inputs"
	NodeFetchIssues         = "fetch_issues"
	NodeLoadImages          = "load_images"
	NodeReadNotes           = "read_notes"
	NodeTranscribeRecording = "transcribe_recording"
	NodeBuildSeedTurn       = "build_seed_turn"
)

// Inputs are the user supplied sources for one session. Empty paths are
// skipped.
type Inputs struct {
	Ticket        string
	NotesPath     string
	ImagesPath    string
	RecordingPath string
	VaultPath     string
}

type GraphState struct {
	Inputs Inputs

	Document   string
	Images     []contractx.Image
	Notes      string
	Transcript string
}

// ValidateInputs runs every local check before any remote call is made.
func ValidateInputs(in Inputs, canTranscribe bool) (*GraphState, error) {
	in.Ticket = tracker.NormalizeKey(in.Ticket)
	in.NotesPath = strings.TrimSpace(in.NotesPath)
	in.ImagesPath = strings.TrimSpace(in.ImagesPath)
	in.RecordingPath = strings.TrimSpace(in.RecordingPath)
	in.VaultPath = strings.TrimSpace(in.VaultPath)

	if in.ImagesPath != "" {
		if _, err := mediax.CheckImageDir(in.ImagesPath); err != nil {
			return nil, err
		}
	}
	if in.NotesPath != "" {
		if err := mediax.CheckNotes(in.NotesPath); err != nil {
			return nil, err
		}
	}
	if in.RecordingPath != "" {
		if err := mediax.CheckRecording(in.RecordingPath); err != nil {
			return nil, err
		}
		if !canTranscribe {
			return nil, fmt.Errorf("%w: a recording was given but no transcriber is configured", contractx.ErrInputValidation)
		}
	}
	if in.VaultPath != "" {
		if err := mediax.CheckVault(in.VaultPath); err != nil {
			return nil, err
		}
	}

	return &GraphState{Inputs: in}, nil
}
