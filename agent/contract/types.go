package contract

import (
	"encoding/json"

	"github.com/cloudwego/eino/schema"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type BlockType string

const (
	BlockText       BlockType = "text"
	BlockImage      BlockType = "image"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
)

// ContentBlock is a tagged union; exactly one payload matches Type.
type ContentBlock struct {
	Type       BlockType   `json:"type"`
	Text       string      `json:"text,omitempty"`
	Image      *Image      `json:"image,omitempty"`
	ToolUse    *ToolUse    `json:"tool_use,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

type Image struct {
	MediaType string `json:"media_type"`
	Data      string `json:"data"` // base64, standard encoding
}

type ToolUse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

type ToolResult struct {
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

func ImageBlock(mediaType, data string) ContentBlock {
	return ContentBlock{Type: BlockImage, Image: &Image{MediaType: mediaType, Data: data}}
}

func ToolUseBlock(id, name string, input json.RawMessage) ContentBlock {
	return ContentBlock{Type: BlockToolUse, ToolUse: &ToolUse{ID: id, Name: name, Input: input}}
}

func ToolResultBlock(toolUseID, content string, isError bool) ContentBlock {
	return ContentBlock{Type: BlockToolResult, ToolResult: &ToolResult{ToolUseID: toolUseID, Content: content, IsError: isError}}
}

type Turn struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

func UserText(text string) Turn {
	return Turn{Role: RoleUser, Content: []ContentBlock{TextBlock(text)}}
}

func AssistantText(text string) Turn {
	return Turn{Role: RoleAssistant, Content: []ContentBlock{TextBlock(text)}}
}

type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopToolUse   StopReason = "tool_use"
	StopMaxTokens StopReason = "max_tokens"
)

type ModelRequest struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	System      string
	Turns       []Turn
	Tools       []*schema.ToolInfo
}

type ModelResponse struct {
	StopReason StopReason
	Content    []ContentBlock
}

// FirstText returns the first text block of the response.
func (r ModelResponse) FirstText() (string, bool) {
	for _, block := range r.Content {
		if block.Type == BlockText {
			return block.Text, true
		}
	}
	return "", false
}

// LastBlock returns the final content block, where a tool invocation sits.
func (r ModelResponse) LastBlock() (ContentBlock, bool) {
	if len(r.Content) == 0 {
		return ContentBlock{}, false
	}
	return r.Content[len(r.Content)-1], true
}
