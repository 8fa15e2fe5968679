package sessionnode

import (
	"fmt"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	mediax "github.com/tanpawarit/story-slammer/agent/media"
)

func LoadImages(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Inputs.ImagesPath == "" {
		return in, nil
	}

	images, err := mediax.LoadImages(in.Inputs.ImagesPath)
	if err != nil {
		return nil, err
	}
	in.Images = images
	return in, nil
}
