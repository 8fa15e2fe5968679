package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

var noteExtensions = map[string]struct{}{
	".md":  {},
	".txt": {},
}

// CheckNotes verifies path names an existing Markdown or text file.
func CheckNotes(path string) error {
	if err := checkFile(path, "notes file"); err != nil {
		return err
	}
	if _, ok := noteExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
		return fmt.Errorf("%w: notes file %s must be .md or .txt", contractx.ErrInputValidation, path)
	}
	return nil
}

// ReadNotes returns the notes file content as text.
func ReadNotes(path string) (string, error) {
	if err := CheckNotes(path); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read notes %s: %v", contractx.ErrInputValidation, path, err)
	}
	return string(raw), nil
}

// CheckRecording verifies path names an existing .mp4 file.
func CheckRecording(path string) error {
	if err := checkFile(path, "recording"); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(path), ".mp4") {
		return fmt.Errorf("%w: recording %s must be an .mp4 file", contractx.ErrInputValidation, path)
	}
	return nil
}

// CheckVault verifies path names an existing directory.
func CheckVault(path string) error {
	return checkDir(path, "vault folder")
}

func checkFile(path, label string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", contractx.ErrInputValidation, label, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s %s is a directory", contractx.ErrInputValidation, label, path)
	}
	return nil
}

func checkDir(path, label string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", contractx.ErrInputValidation, label, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s %s is not a directory", contractx.ErrInputValidation, label, path)
	}
	return nil
}
