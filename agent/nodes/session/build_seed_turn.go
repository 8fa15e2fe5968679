package sessionnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

// BuildSeedTurn assembles the first user turn: images first, then a single
// text block holding the prompt and the gathered material.
func BuildSeedTurn(in *GraphState, summaryPrompt string) (contractx.Turn, error) {
	if in == nil {
		return contractx.Turn{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	content := make([]contractx.ContentBlock, 0, len(in.Images)+1)
	for _, img := range in.Images {
		content = append(content, contractx.ImageBlock(img.MediaType, img.Data))
	}
	content = append(content, contractx.TextBlock(SeedText(summaryPrompt, in.Document, in.Notes, in.Transcript)))

	return contractx.Turn{Role: contractx.RoleUser, Content: content}, nil
}

func SeedText(summaryPrompt, document, notes, transcript string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(summaryPrompt)
	b.WriteString("\nHere's the data for analysis:\n<jira>")
	b.WriteString(document)
	b.WriteString("</jira>\n<notes>")
	b.WriteString(notes)
	b.WriteString("</notes>\n<transcript>")
	b.WriteString(transcript)
	b.WriteString("</transcript>\n")
	return b.String()
}
