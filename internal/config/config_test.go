package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"markdeck/internal/logging"

	"github.com/stretchr/testify/require"
)

var markdeckEnv = []string{
	"CONFIG", "LOG_LEVEL", "READY_GRACE", "EVENT_BUFFER", "BRIDGE_ADDR",
	"BRIDGE_ORIGINS", "WINDOW_WIDTH", "WINDOW_HEIGHT", "TITLE",
}

// isolate points the user config dir at an empty temp dir and clears every
// MARKDECK_* variable.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("AppData", filepath.Join(home, "appdata"))
	for _, name := range markdeckEnv {
		t.Setenv(envPrefix+name, "")
	}
	return home
}

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	require.Equal(t, logging.LevelInfo, cfg.LogLevel)
	require.Equal(t, 500*time.Millisecond, cfg.ReadyGrace)
	require.Equal(t, 64, cfg.EventBuffer)
	require.Equal(t, 1200, cfg.WindowWidth)
	require.Equal(t, 800, cfg.WindowHeight)
	require.Equal(t, "Markdeck", cfg.Title)
	require.Empty(t, cfg.BridgeAddr)
	require.Empty(t, cfg.InitialFile)
	require.Empty(t, cfg.ConfigFile)
	require.Equal(t, SourceDefault, cfg.Sources["title"])
	require.Equal(t, SourceDefault, cfg.Sources["ready-grace"])
}

func TestLoadConfigPositionalFile(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig([]string{"--verbose", "slides/deck.md"})
	require.NoError(t, err)
	require.Equal(t, "slides/deck.md", cfg.InitialFile)
	require.Equal(t, logging.LevelDebug, cfg.LogLevel)
}

func TestLoadConfigOptionsAfterFile(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig([]string{"deck.md", "--verbose", "--title", "Talk"})
	require.NoError(t, err)
	require.Equal(t, "deck.md", cfg.InitialFile)
	require.True(t, cfg.Verbose)
	require.Equal(t, logging.LevelDebug, cfg.LogLevel)
	require.Equal(t, "Talk", cfg.Title)
	require.Equal(t, SourceFlag, cfg.Sources["title"])
}

func TestLoadConfigDoubleDashEndsOptions(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig([]string{"--quiet", "--", "--draft.md", "--verbose"})
	require.NoError(t, err)
	require.Equal(t, "--draft.md", cfg.InitialFile)
	require.True(t, cfg.Quiet)
	require.False(t, cfg.Verbose)
}

func TestParseInterspersed(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	verbose := fs.Bool("verbose", false, "")
	title := fs.String("title", "", "")

	positionals, err := parseInterspersed(fs, []string{"a.md", "--title", "T", "b.md", "--verbose"})
	require.NoError(t, err)
	require.Equal(t, []string{"a.md", "b.md"}, positionals)
	require.True(t, *verbose)
	require.Equal(t, "T", *title)

	_, err = parseInterspersed(fs, []string{"a.md", "--nope"})
	require.Error(t, err)
}

func TestLoadConfigPrecedence(t *testing.T) {
	isolate(t)
	path := writeSettings(t, `
log-level: error
ready-grace: 2s
event-buffer: 16
bridge:
  addr: 127.0.0.1:7001
  origins: ["http://localhost:5173"]
window:
  width: 900
  height: 700
  title: From File
`)
	t.Setenv("MARKDECK_CONFIG", path)
	t.Setenv("MARKDECK_EVENT_BUFFER", "32")
	t.Setenv("MARKDECK_TITLE", "From Env")
	t.Setenv("MARKDECK_WINDOW_WIDTH", "not-a-number")

	cfg, err := LoadConfig([]string{"--title", "From Flag", "--window-height", "650"})
	require.NoError(t, err)

	require.Equal(t, path, cfg.ConfigFile)
	require.Equal(t, logging.LevelError, cfg.LogLevel)
	require.Equal(t, SourceFile, cfg.Sources["log-level"])
	require.Equal(t, 2*time.Second, cfg.ReadyGrace)
	require.Equal(t, 32, cfg.EventBuffer)
	require.Equal(t, SourceEnv, cfg.Sources["event-buffer"])
	require.Equal(t, "127.0.0.1:7001", cfg.BridgeAddr)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.BridgeOrigins)
	require.Equal(t, 900, cfg.WindowWidth)
	require.Equal(t, SourceFile, cfg.Sources["window-width"])
	require.Equal(t, 650, cfg.WindowHeight)
	require.Equal(t, SourceFlag, cfg.Sources["window-height"])
	require.Equal(t, "From Flag", cfg.Title)
	require.Equal(t, SourceFlag, cfg.Sources["title"])
}

func TestLoadConfigUsesDefaultSettingsFile(t *testing.T) {
	home := isolate(t)
	path := DefaultSettingsPath()
	require.NotEmpty(t, path)
	require.True(t, filepath.IsAbs(path))
	require.Contains(t, path, home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("window:\n  title: Talks\n"), 0o600))

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	require.Equal(t, "Talks", cfg.Title)
	require.Equal(t, path, cfg.ConfigFile)
}

func TestLoadConfigMissingExplicitSettings(t *testing.T) {
	isolate(t)

	_, err := LoadConfig([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadConfigRejectsUnknownSettings(t *testing.T) {
	isolate(t)
	path := writeSettings(t, "theme: dark\n")

	_, err := LoadConfig([]string{"--config", path})
	require.ErrorContains(t, err, "parse settings")
}

func TestLoadConfigEmptySettingsFile(t *testing.T) {
	isolate(t)
	path := writeSettings(t, "")

	cfg, err := LoadConfig([]string{"--config", path})
	require.NoError(t, err)
	require.Equal(t, "Markdeck", cfg.Title)
}

func TestLoadConfigBridgeFlags(t *testing.T) {
	isolate(t)
	t.Setenv("MARKDECK_BRIDGE_ORIGINS", "http://a.test")

	cfg, err := LoadConfig([]string{"--bridge-addr", "127.0.0.1:7002", "--bridge-origins", "http://b.test, localhost ,"})
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7002", cfg.BridgeAddr)
	require.Equal(t, []string{"http://b.test", "localhost"}, cfg.BridgeOrigins)
	require.Equal(t, SourceFlag, cfg.Sources["bridge-origins"])
}

func TestLoadConfigInvalidValues(t *testing.T) {
	cases := map[string][]string{
		"log level":     {"--log-level", "loud"},
		"ready grace":   {"--ready-grace", "0s"},
		"event buffer":  {"--event-buffer", "0"},
		"window width":  {"--window-width", "-1"},
		"empty title":   {"--title", "  "},
		"verbose quiet": {"--verbose", "--quiet"},
		"unknown flag":  {"--nope"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			_, err := LoadConfig(args)
			require.Error(t, err)
		})
	}
}

func TestLoadConfigInvalidEnvIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("MARKDECK_LOG_LEVEL", "loud")
	t.Setenv("MARKDECK_READY_GRACE", "soon")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	require.Equal(t, logging.LevelInfo, cfg.LogLevel)
	require.Equal(t, 500*time.Millisecond, cfg.ReadyGrace)
}

func TestLoadConfigHelpAndVersion(t *testing.T) {
	isolate(t)

	_, err := LoadConfig([]string{"--help"})
	require.ErrorIs(t, err, flag.ErrHelp)

	cfg, err := LoadConfig([]string{"-v"})
	require.NoError(t, err)
	require.True(t, cfg.ShowVersion)
}

func TestLogSourcesSkipsDefaults(t *testing.T) {
	isolate(t)
	buffer := logging.NewLogBuffer(4)
	logger := logging.NewLoggerWithOutput(buffer, logging.LevelInfo, io.Discard)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	LogSources(logger, cfg)
	require.Equal(t, 0, buffer.Len())

	cfg, err = LoadConfig([]string{"--title", "Talk"})
	require.NoError(t, err)
	LogSources(logger, cfg)
	entries := buffer.List()
	require.Len(t, entries, 1)
	require.Equal(t, "flag", entries[0].Context["title"])
	require.NotContains(t, entries[0].Context, "window-width")
}
