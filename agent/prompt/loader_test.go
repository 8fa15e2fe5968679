package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

func TestLoadPromptSetEmbedded(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	for name, v := range map[string]string{
		"initial summary": set.InitialSummary,
		"chatbot":         set.Chatbot,
		"context":         set.Context,
		"chatbot system":  set.ChatbotSystem,
		"summary system":  set.SummarySystem,
	} {
		if v == "" || v != strings.TrimSpace(v) {
			t.Fatalf("%s prompt empty or untrimmed: %q", name, v)
		}
	}
}

func TestSummaryPromptAttachesContext(t *testing.T) {
	t.Parallel()

	set := PromptSet{InitialSummary: "Summarise.", Context: "We build sites."}
	if got := set.SummaryPrompt(); got != "Summarise.\n<context>We build sites.</context>" {
		t.Fatalf("SummaryPrompt() = %q", got)
	}
}

func TestLoadDirOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(InitialSummaryFile, "custom summary\n")
	write(ChatbotFile, "custom chatbot")
	write(ContextFile, "")
	write(SummarySystemFile, "custom architect")

	set, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if set.InitialSummary != "custom summary" || set.Chatbot != "custom chatbot" || set.Context != "" {
		t.Fatalf("unexpected prompts: %#v", set)
	}
	if set.SummarySystem != "custom architect" {
		t.Fatalf("summary system = %q", set.SummarySystem)
	}
	if set.ChatbotSystem != LoadPromptSet().ChatbotSystem {
		t.Fatalf("chatbot system should fall back to embedded, got %q", set.ChatbotSystem)
	}
}

func TestLoadDirMissingRequiredFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, InitialSummaryFile), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDir(dir); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}

func TestLoadDirEmptyUsesEmbedded(t *testing.T) {
	t.Parallel()

	set, err := LoadDir("  ")
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if set != LoadPromptSet() {
		t.Fatal("expected embedded prompt set")
	}
}
