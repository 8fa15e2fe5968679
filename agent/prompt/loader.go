package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

const (
	InitialSummaryFile = "initial_summary_prompt.txt"
	ChatbotFile        = "chatbot_prompt.txt"
	ContextFile        = "context.txt"
	ChatbotSystemFile  = "chatbot_system.txt"
	SummarySystemFile  = "summary_system.txt"
)

var (
	//go:embed template/initial_summary_prompt.txt
	initialSummaryRaw string

	//go:embed template/chatbot_prompt.txt
	chatbotRaw string

	//go:embed template/context.txt
	contextRaw string

	//go:embed template/chatbot_system.txt
	chatbotSystemRaw string

	//go:embed template/summary_system.txt
	summarySystemRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	InitialSummary string
	Chatbot        string
	Context        string
	ChatbotSystem  string
	SummarySystem  string
}

// LoadPromptSet returns the embedded prompts with surrounding whitespace
// trimmed.
func LoadPromptSet() PromptSet {
	return PromptSet{
		InitialSummary: strings.TrimSpace(initialSummaryRaw),
		Chatbot:        strings.TrimSpace(chatbotRaw),
		Context:        strings.TrimSpace(contextRaw),
		ChatbotSystem:  strings.TrimSpace(chatbotSystemRaw),
		SummarySystem:  strings.TrimSpace(summarySystemRaw),
	}
}

// LoadDir reads prompts from dir. The three prompt files are required; the
// system prompts fall back to the embedded ones. An empty dir means
// LoadPromptSet.
func LoadDir(dir string) (PromptSet, error) {
	set := LoadPromptSet()
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return set, nil
	}

	required := []struct {
		name string
		dst  *string
	}{
		{InitialSummaryFile, &set.InitialSummary},
		{ChatbotFile, &set.Chatbot},
		{ContextFile, &set.Context},
	}
	for _, r := range required {
		raw, err := os.ReadFile(filepath.Join(dir, r.name))
		if err != nil {
			return PromptSet{}, fmt.Errorf("%w: %s: %v", contractx.ErrPromptMissing, r.name, err)
		}
		*r.dst = strings.TrimSpace(string(raw))
	}

	optional := []struct {
		name string
		dst  *string
	}{
		{ChatbotSystemFile, &set.ChatbotSystem},
		{SummarySystemFile, &set.SummarySystem},
	}
	for _, o := range optional {
		raw, err := os.ReadFile(filepath.Join(dir, o.name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return PromptSet{}, fmt.Errorf("%w: %s: %v", contractx.ErrPromptMissing, o.name, err)
		}
		if text := strings.TrimSpace(string(raw)); text != "" {
			*o.dst = text
		}
	}

	return set, nil
}

// SummaryPrompt is the initial summary prompt with the team context attached.
func (p PromptSet) SummaryPrompt() string {
	return p.InitialSummary + "\n<context>" + p.Context + "</context>"
}
