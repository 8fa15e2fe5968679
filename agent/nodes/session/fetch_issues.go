package sessionnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	"github.com/tanpawarit/story-slammer/agent/tracker"
)

// IssueGraph fetches a ticket together with its parent and siblings.
type IssueGraph interface {
	FetchIssueGraph(ctx context.Context, primaryKey string) (tracker.Document, error)
}

func FetchIssues(ctx context.Context, in *GraphState, issues IssueGraph) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Inputs.Ticket == "" {
		return in, nil
	}
	if issues == nil {
		return nil, fmt.Errorf("%w: no issue tracker configured", contractx.ErrTrackerUnavailable)
	}

	doc, err := issues.FetchIssueGraph(ctx, in.Inputs.Ticket)
	if err != nil {
		return nil, err
	}
	in.Document = doc.String()

	log.Debug().Str("ticket", in.Inputs.Ticket).Int("issues", len(doc)).Msg("issue graph loaded")
	return in, nil
}
