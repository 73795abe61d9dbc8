// Package config resolves markdeck settings from defaults, an optional YAML
// settings file, MARKDECK_* environment variables and command-line flags, in
// that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"markdeck/internal/logging"
)

type Config struct {
	LogLevel      logging.Level
	Verbose       bool
	Quiet         bool
	ShowVersion   bool
	ReadyGrace    time.Duration
	EventBuffer   int
	BridgeAddr    string
	BridgeOrigins []string
	WindowWidth   int
	WindowHeight  int
	Title         string
	ConfigFile    string
	InitialFile   string
	Sources       map[string]Source
}

type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

const envPrefix = "MARKDECK_"

type configDefaults struct {
	LogLevel     logging.Level
	ReadyGrace   time.Duration
	EventBuffer  int
	WindowWidth  int
	WindowHeight int
	Title        string
}

func defaultConfigValues() configDefaults {
	return configDefaults{
		LogLevel:     logging.LevelInfo,
		ReadyGrace:   500 * time.Millisecond,
		EventBuffer:  64,
		WindowWidth:  1200,
		WindowHeight: 800,
		Title:        "Markdeck",
	}
}

// LoadConfig parses args (without the program name). It returns
// flag.ErrHelp after printing usage when help was requested.
func LoadConfig(args []string) (Config, error) {
	defaults := defaultConfigValues()
	flags, err := parseFlags(args, defaults)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Sources: make(map[string]Source),
	}

	settingsPath, explicit := resolveSettingsPath(flags)
	settings, err := loadSettingsFile(settingsPath, explicit)
	if err != nil {
		return Config{}, err
	}
	if settings != nil {
		cfg.ConfigFile = settingsPath
	}

	logLevel := defaults.LogLevel
	logLevelSource := SourceDefault
	if settings != nil && settings.LogLevel != nil {
		parsed, ok := logging.ParseLevel(*settings.LogLevel)
		if !ok {
			return Config{}, fmt.Errorf("invalid log-level %q in %s", *settings.LogLevel, settingsPath)
		}
		logLevel = parsed
		logLevelSource = SourceFile
	}
	if raw, ok := lookupEnv("LOG_LEVEL"); ok {
		if parsed, ok := logging.ParseLevel(raw); ok {
			logLevel = parsed
			logLevelSource = SourceEnv
		}
	}
	if flags.Set["log-level"] {
		parsed, ok := logging.ParseLevel(flags.LogLevel)
		if !ok {
			return Config{}, fmt.Errorf("invalid --log-level %q: use debug, info, warning or error", flags.LogLevel)
		}
		logLevel = parsed
		logLevelSource = SourceFlag
	}

	cfg.Verbose = flags.Verbose
	cfg.Quiet = flags.Quiet
	if flags.Set["verbose"] {
		cfg.Sources["verbose"] = SourceFlag
	}
	if flags.Set["quiet"] {
		cfg.Sources["quiet"] = SourceFlag
	}
	if cfg.Verbose && cfg.Quiet {
		return Config{}, fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}
	if !flags.Set["log-level"] {
		if cfg.Verbose {
			logLevel = logging.LevelDebug
			logLevelSource = SourceFlag
		} else if cfg.Quiet {
			logLevel = logging.LevelWarning
			logLevelSource = SourceFlag
		}
	}
	cfg.LogLevel = logLevel
	cfg.Sources["log-level"] = logLevelSource

	readyGrace := defaults.ReadyGrace
	readyGraceSource := SourceDefault
	if settings != nil && settings.ReadyGrace != nil {
		parsed, err := parsePositiveDuration(*settings.ReadyGrace)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ready-grace in %s: %w", settingsPath, err)
		}
		readyGrace = parsed
		readyGraceSource = SourceFile
	}
	if raw, ok := lookupEnv("READY_GRACE"); ok {
		if parsed, err := parsePositiveDuration(raw); err == nil {
			readyGrace = parsed
			readyGraceSource = SourceEnv
		}
	}
	if flags.Set["ready-grace"] {
		if flags.ReadyGrace <= 0 {
			return Config{}, fmt.Errorf("invalid --ready-grace: must be > 0")
		}
		readyGrace = flags.ReadyGrace
		readyGraceSource = SourceFlag
	}
	cfg.ReadyGrace = readyGrace
	cfg.Sources["ready-grace"] = readyGraceSource

	eventBuffer, eventBufferSource, err := resolvePositiveInt("event-buffer", defaults.EventBuffer, fileInt(settings, func(s *settingsFile) *int { return s.EventBuffer }), flags)
	if err != nil {
		return Config{}, err
	}
	cfg.EventBuffer = eventBuffer
	cfg.Sources["event-buffer"] = eventBufferSource

	bridgeAddr := ""
	bridgeAddrSource := SourceDefault
	if settings != nil && settings.Bridge.Addr != nil {
		bridgeAddr = strings.TrimSpace(*settings.Bridge.Addr)
		bridgeAddrSource = SourceFile
	}
	if raw, ok := lookupEnv("BRIDGE_ADDR"); ok {
		bridgeAddr = raw
		bridgeAddrSource = SourceEnv
	}
	if flags.Set["bridge-addr"] {
		bridgeAddr = strings.TrimSpace(flags.BridgeAddr)
		bridgeAddrSource = SourceFlag
	}
	cfg.BridgeAddr = bridgeAddr
	cfg.Sources["bridge-addr"] = bridgeAddrSource

	var bridgeOrigins []string
	bridgeOriginsSource := SourceDefault
	if settings != nil && len(settings.Bridge.Origins) > 0 {
		bridgeOrigins = cleanList(settings.Bridge.Origins)
		bridgeOriginsSource = SourceFile
	}
	if raw, ok := lookupEnv("BRIDGE_ORIGINS"); ok {
		bridgeOrigins = splitList(raw)
		bridgeOriginsSource = SourceEnv
	}
	if flags.Set["bridge-origins"] {
		bridgeOrigins = splitList(flags.BridgeOrigins)
		bridgeOriginsSource = SourceFlag
	}
	cfg.BridgeOrigins = bridgeOrigins
	cfg.Sources["bridge-origins"] = bridgeOriginsSource

	windowWidth, windowWidthSource, err := resolvePositiveInt("window-width", defaults.WindowWidth, fileInt(settings, func(s *settingsFile) *int { return s.Window.Width }), flags)
	if err != nil {
		return Config{}, err
	}
	cfg.WindowWidth = windowWidth
	cfg.Sources["window-width"] = windowWidthSource

	windowHeight, windowHeightSource, err := resolvePositiveInt("window-height", defaults.WindowHeight, fileInt(settings, func(s *settingsFile) *int { return s.Window.Height }), flags)
	if err != nil {
		return Config{}, err
	}
	cfg.WindowHeight = windowHeight
	cfg.Sources["window-height"] = windowHeightSource

	title := defaults.Title
	titleSource := SourceDefault
	if settings != nil && settings.Window.Title != nil && strings.TrimSpace(*settings.Window.Title) != "" {
		title = strings.TrimSpace(*settings.Window.Title)
		titleSource = SourceFile
	}
	if raw, ok := lookupEnv("TITLE"); ok {
		title = raw
		titleSource = SourceEnv
	}
	if flags.Set["title"] {
		trimmed := strings.TrimSpace(flags.Title)
		if trimmed == "" {
			return Config{}, fmt.Errorf("invalid --title: value cannot be empty")
		}
		title = trimmed
		titleSource = SourceFlag
	}
	cfg.Title = title
	cfg.Sources["title"] = titleSource

	cfg.ShowVersion = flags.Version
	if len(flags.Args) > 0 {
		cfg.InitialFile = flags.Args[0]
		cfg.Sources["file"] = SourceFlag
	}

	return cfg, nil
}

// lookupEnv returns the trimmed value of MARKDECK_<name> when it is set and
// non-empty.
func lookupEnv(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(envPrefix + name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func fileInt(settings *settingsFile, field func(*settingsFile) *int) *int {
	if settings == nil {
		return nil
	}
	return field(settings)
}

func resolvePositiveInt(key string, fallback int, fromFile *int, flags flagValues) (int, Source, error) {
	value := fallback
	source := SourceDefault
	if fromFile != nil {
		if *fromFile <= 0 {
			return 0, "", fmt.Errorf("invalid %s in settings file: must be > 0", key)
		}
		value = *fromFile
		source = SourceFile
	}
	if raw, ok := lookupEnv(envName(key)); ok {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			value = parsed
			source = SourceEnv
		}
	}
	if flags.Set[key] {
		flagValue := flags.Ints[key]
		if flagValue <= 0 {
			return 0, "", fmt.Errorf("invalid --%s: must be > 0", key)
		}
		value = flagValue
		source = SourceFlag
	}
	return value, source, nil
}

func parsePositiveDuration(raw string) (time.Duration, error) {
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("duration must be > 0")
	}
	return parsed, nil
}

func splitList(raw string) []string {
	return cleanList(strings.Split(raw, ","))
}

func cleanList(values []string) []string {
	var cleaned []string
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
