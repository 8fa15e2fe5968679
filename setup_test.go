package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	promptx "github.com/tanpawarit/story-slammer/agent/prompt"
	configx "github.com/tanpawarit/story-slammer/pkg/config"
	"github.com/tanpawarit/story-slammer/pkg/console"
)

func TestConfirmPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   string
		current string
		want    string
		output  string
	}{
		{name: "empty keeps", input: "\n", current: "notes.md", want: "notes.md", output: "set to notes.md"},
		{name: "yes keeps", input: "YES\n", current: "notes.md", want: "notes.md"},
		{name: "unset shown", input: "y\n", current: "", want: "", output: "not set"},
		{name: "decline clears", input: "n\nn\n", current: "notes.md", want: ""},
		{name: "empty second answer clears", input: "n\n\n", current: "notes.md", want: ""},
		{name: "new path", input: "n\ny\n  other.md \n", current: "notes.md", want: "other.md"},
		{name: "blank new path keeps", input: "n\ny\n\n", current: "notes.md", want: "notes.md", output: "No file selected. Keeping the current value."},
		{name: "invalid then no", input: "n\nmaybe\nno\n", current: "notes.md", want: "", output: "Invalid input. Please enter 'y' for yes or 'n' for no."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			term := console.New(strings.NewReader(tc.input), &out)

			got, err := confirmPath(term, "Your notes file is", tc.current, "markdown file")
			if err != nil {
				t.Fatalf("confirmPath: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
			if tc.output != "" && !strings.Contains(out.String(), tc.output) {
				t.Fatalf("output %q missing %q", out.String(), tc.output)
			}
		})
	}
}

func TestConfirmPathInputExhausted(t *testing.T) {
	t.Parallel()

	term := console.New(strings.NewReader("n\n"), io.Discard)
	if _, err := confirmPath(term, "Your vault folder is", "vault", "folder"); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestConfirmSettings(t *testing.T) {
	t.Parallel()

	// keep notes, pick new images, clear recording, keep vault
	input := "y\nn\ny\nshots\nn\nn\n\n"

	var out bytes.Buffer
	term := console.New(strings.NewReader(input), &out)

	got, err := confirmSettings(term, configx.Settings{
		NotesPath:     "notes.md",
		ImagesPath:    "old",
		RecordingPath: "demo.mp4",
		VaultPath:     "vault",
	})
	if err != nil {
		t.Fatalf("confirmSettings: %v", err)
	}

	want := configx.Settings{NotesPath: "notes.md", ImagesPath: "shots", VaultPath: "vault"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for _, label := range []string{"Your notes file is", "Your images folder is", "Your recording file is", "Your vault folder is"} {
		if !strings.Contains(out.String(), label) {
			t.Fatalf("output missing %q", label)
		}
	}
}

func TestPrintInputSummary(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printInputSummary(console.New(strings.NewReader(""), &out), "PROJ-7", configx.Settings{NotesPath: "notes.md"})

	text := out.String()
	for _, want := range []string{"Jira Card: PROJ-7", "Notes File: notes.md", "Images Folder: Not provided", "Recording File: Not provided"} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary %q missing %q", text, want)
		}
	}
}

func TestPrintIntroReportsPromptLengths(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	prompts := promptx.PromptSet{InitialSummary: "sum", Chatbot: "chat!", Context: "ctx"}
	printIntro(console.New(strings.NewReader(""), &out), prompts)

	text := out.String()
	for _, want := range []string{
		"Using context with length: 3",
		fmt.Sprintf("Using initial summary prompt with length: %d", len(prompts.SummaryPrompt())-3),
		"Using chatbot prompt with length: 5",
		"Welcome to Story Slammer!",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("intro %q missing %q", text, want)
		}
	}
}
