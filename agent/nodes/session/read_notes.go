package sessionnode

import (
	"fmt"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	mediax "github.com/tanpawarit/story-slammer/agent/media"
)

func ReadNotes(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Inputs.NotesPath == "" {
		return in, nil
	}

	notes, err := mediax.ReadNotes(in.Inputs.NotesPath)
	if err != nil {
		return nil, err
	}
	in.Notes = notes
	return in, nil
}
