package contract

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/eino/schema"
)

type ChatModel interface {
	Complete(ctx context.Context, req ModelRequest) (ModelResponse, error)
}

// ToolHandler executes one tool. Failures are reported inside the returned
// content; isError marks them for the model.
type ToolHandler interface {
	Execute(ctx context.Context, input json.RawMessage) (content string, isError bool)
}

type IssueLookup interface {
	FetchSingleIssue(ctx context.Context, key string) string
}

type Transcriber interface {
	Transcribe(ctx context.Context, recordingPath string) (string, error)
}

// LineReader supplies interactive input. io.EOF ends the session.
type LineReader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// Presenter surfaces session output to the user.
type Presenter interface {
	Notice(text string)
	Warn(text string)
	Answer(text string)
}

// ToolExecutor lists the tools offered to the model and runs them by name.
type ToolExecutor interface {
	Descriptors() []*schema.ToolInfo
	Execute(ctx context.Context, name string, input json.RawMessage) (content string, isError bool)
}

// Conversation is the append-only turn history of a session.
type Conversation interface {
	History() []Turn
	Append(turns ...Turn) error
}
