package main

import (
	"fmt"
	"strings"

	promptx "github.com/tanpawarit/story-slammer/agent/prompt"
	configx "github.com/tanpawarit/story-slammer/pkg/config"
	"github.com/tanpawarit/story-slammer/pkg/console"
)

const banner = `
 _____ __  __       __                __ __  
(_  | /  \|__)\_/  (_ |   /\ |\/||\/||_ |__) 
__) | \__/|  \ |   __)|__/--\|  ||  ||__|  \
`

const notProvided = "Not provided"

func printIntro(term *console.Console, prompts promptx.PromptSet) {
	term.Print(console.Banner, banner)
	term.Print(console.Info, fmt.Sprintf("Using context with length: %d", len(prompts.Context)))
	term.Print(console.Info, fmt.Sprintf("Using initial summary prompt with length: %d", len(prompts.SummaryPrompt())-len(prompts.Context)))
	term.Print(console.Info, fmt.Sprintf("Using chatbot prompt with length: %d", len(prompts.Chatbot)))
	term.Print(console.Banner, "\nWelcome to Story Slammer!")
	term.Print(console.Banner, "=========================")
}

// confirmSettings walks the user through every remembered path.
func confirmSettings(term *console.Console, s configx.Settings) (configx.Settings, error) {
	steps := []struct {
		label string
		kind  string
		value *string
	}{
		{"Your notes file is", "markdown file", &s.NotesPath},
		{"Your images folder is", "folder", &s.ImagesPath},
		{"Your recording file is", "video file", &s.RecordingPath},
		{"Your vault folder is", "folder", &s.VaultPath},
	}

	for _, step := range steps {
		v, err := confirmPath(term, step.label, *step.value, step.kind)
		if err != nil {
			return s, err
		}
		*step.value = v
	}
	return s, nil
}

// confirmPath keeps current on an empty or yes answer. Declining a new
// selection clears the value.
func confirmPath(term *console.Console, label, current, kind string) (string, error) {
	state := "not set"
	if current != "" {
		state = "set to " + current
	}

	answer, err := term.Ask(console.Plain, fmt.Sprintf("%s %s. Is this correct? [y/n]: ", label, state))
	if err != nil {
		return "", err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return current, nil
	}

	for {
		answer, err := term.Ask(console.Plain, fmt.Sprintf("Do you want to select a new %s? [y/n]: ", kind))
		if err != nil {
			return "", err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			path, err := term.Ask(console.Warning, fmt.Sprintf("Please enter the path of the new %s: ", kind))
			if err != nil {
				return "", err
			}
			if path = strings.TrimSpace(path); path != "" {
				return path, nil
			}
			term.Print(console.Warning, "No file selected. Keeping the current value.")
			return current, nil
		case "", "n", "no":
			return "", nil
		}
		term.Print(console.Failure, "Invalid input. Please enter 'y' for yes or 'n' for no.")
	}
}

func printInputSummary(term *console.Console, ticket string, s configx.Settings) {
	term.Print(console.Banner, "\nThank you for providing the information!")
	term.Print(console.Banner, "Here's a summary of what you entered:")
	term.Print(console.Success, "Jira Card: "+ticket)
	term.Print(console.Warning, "Notes File: "+orNotProvided(s.NotesPath))
	term.Print(console.Reply, "Images Folder: "+orNotProvided(s.ImagesPath))
	term.Print(console.Info, "Recording File: "+orNotProvided(s.RecordingPath))
}

func orNotProvided(v string) string {
	if v == "" {
		return notProvided
	}
	return v
}
