package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const DefaultSettingsFile = "settings.json"

// Settings are the input locations remembered between runs.
type Settings struct {
	NotesPath     string `mapstructure:"notes_path"`
	ImagesPath    string `mapstructure:"images_path"`
	RecordingPath string `mapstructure:"recording_path"`
	VaultPath     string `mapstructure:"vault_path"`
}

// LoadSettings reads the settings file. A missing file yields empty settings.
func LoadSettings(path string) (Settings, error) {
	path = settingsPath(path)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("stat settings file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings file: %w", err)
	}
	return s, nil
}

// SaveSettings overwrites the settings file with s.
func SaveSettings(path string, s Settings) error {
	path = settingsPath(path)

	v := viper.New()
	v.SetConfigType("json")
	v.Set("notes_path", s.NotesPath)
	v.Set("images_path", s.ImagesPath)
	v.Set("recording_path", s.RecordingPath)
	v.Set("vault_path", s.VaultPath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func settingsPath(path string) string {
	if p := strings.TrimSpace(path); p != "" {
		return p
	}
	return DefaultSettingsFile
}
