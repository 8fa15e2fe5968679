package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	"github.com/tanpawarit/story-slammer/agent/tracker"
)

const (
	ToolJira = "Jira"

	jiraDescription     = "Gets any Jira card and returns its details in XML format."
	jiraCardDescription = "The name of the Jira card that will be returned."
)

// Catalog is the set of tools offered to the model, in descriptor order,
// and the handlers that serve them.
type Catalog struct {
	descriptors []*schema.ToolInfo
	handlers    map[string]contractx.ToolHandler
}

// Build returns the catalog with the built-in Jira lookup backed by issues.
func Build(issues contractx.IssueLookup) *Catalog {
	c := NewCatalog()
	c.Register(JiraDescriptor(), NewJiraHandler(issues))
	return c
}

func NewCatalog() *Catalog {
	return &Catalog{handlers: make(map[string]contractx.ToolHandler, 1)}
}

// Register adds or replaces a tool. A replaced tool keeps its position.
func (c *Catalog) Register(desc *schema.ToolInfo, handler contractx.ToolHandler) {
	if desc == nil {
		return
	}
	if _, exists := c.handlers[desc.Name]; !exists {
		c.descriptors = append(c.descriptors, desc)
	} else {
		for i := range c.descriptors {
			if c.descriptors[i].Name == desc.Name {
				c.descriptors[i] = desc
			}
		}
	}
	c.handlers[desc.Name] = handler
}

// Descriptors returns a copy of the tool list sent with each model call.
func (c *Catalog) Descriptors() []*schema.ToolInfo {
	if c == nil {
		return nil
	}
	out := make([]*schema.ToolInfo, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Execute dispatches by name. Unknown names produce an error result rather
// than a Go error so the tool_result can still be sent.
func (c *Catalog) Execute(ctx context.Context, name string, input json.RawMessage) (string, bool) {
	if c != nil {
		if handler, ok := c.handlers[name]; ok && handler != nil {
			return handler.Execute(ctx, input)
		}
	}
	return Unsupported(name), true
}

func Unsupported(name string) string {
	return fmt.Sprintf("Tool %q is not supported.", name)
}

func JiraDescriptor() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: ToolJira,
		Desc: jiraDescription,
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"card_name": {Type: schema.String, Desc: jiraCardDescription, Required: true},
		}),
	}
}

type jiraInput struct {
	CardName string `json:"card_name"`
}

// JiraHandler looks up a single card through the tracker.
type JiraHandler struct {
	issues contractx.IssueLookup
}

var _ contractx.ToolHandler = (*JiraHandler)(nil)

func NewJiraHandler(issues contractx.IssueLookup) *JiraHandler {
	return &JiraHandler{issues: issues}
}

func (h *JiraHandler) Execute(ctx context.Context, input json.RawMessage) (string, bool) {
	var args jiraInput
	if err := json.Unmarshal(input, &args); err != nil || strings.TrimSpace(args.CardName) == "" {
		return tracker.FetchFailedBlock, true
	}
	if h == nil || h.issues == nil {
		return tracker.FetchFailedBlock, true
	}
	return h.issues.FetchSingleIssue(ctx, strings.TrimSpace(args.CardName)), false
}
