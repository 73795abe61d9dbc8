package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "config.yaml"

type settingsFile struct {
	LogLevel    *string        `yaml:"log-level"`
	ReadyGrace  *string        `yaml:"ready-grace"`
	EventBuffer *int           `yaml:"event-buffer"`
	Bridge      bridgeSettings `yaml:"bridge"`
	Window      windowSettings `yaml:"window"`
}

type bridgeSettings struct {
	Addr    *string  `yaml:"addr"`
	Origins []string `yaml:"origins"`
}

type windowSettings struct {
	Width  *int    `yaml:"width"`
	Height *int    `yaml:"height"`
	Title  *string `yaml:"title"`
}

// resolveSettingsPath picks --config, then MARKDECK_CONFIG, then the user
// config directory. The second result reports whether the path was given
// explicitly.
func resolveSettingsPath(flags flagValues) (string, bool) {
	if flags.Set["config"] {
		return strings.TrimSpace(flags.ConfigFile), true
	}
	if raw, ok := lookupEnv("CONFIG"); ok {
		return raw, true
	}
	return DefaultSettingsPath(), false
}

// DefaultSettingsPath returns <user config dir>/markdeck/config.yaml, or ""
// when the user config directory is unknown.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, "markdeck", settingsFileName)
}

// loadSettingsFile reads path. A missing file is an error only when it was
// named explicitly.
func loadSettingsFile(path string, explicit bool) (*settingsFile, error) {
	if path == "" {
		if explicit {
			return nil, fmt.Errorf("invalid --config: value cannot be empty")
		}
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	return parseSettings(data, path)
}

func parseSettings(data []byte, path string) (*settingsFile, error) {
	settings := &settingsFile{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(settings); err != nil {
		if errors.Is(err, io.EOF) {
			return settings, nil
		}
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return settings, nil
}
