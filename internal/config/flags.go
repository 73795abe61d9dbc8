package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"markdeck/internal/cli"
)

type flagValues struct {
	ConfigFile    string
	LogLevel      string
	ReadyGrace    time.Duration
	BridgeAddr    string
	BridgeOrigins string
	Title         string
	Ints          map[string]int
	Verbose       bool
	Quiet         bool
	Help          bool
	Version       bool
	Set           map[string]bool
	Args          []string
}

func parseFlags(args []string, defaults configDefaults) (flagValues, error) {
	if args == nil {
		args = []string{}
	}
	fs := flag.NewFlagSet("markdeck", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configFile := fs.String("config", "", "Settings file")
	logLevel := fs.String("log-level", string(defaults.LogLevel), "Log level")
	readyGrace := fs.Duration("ready-grace", defaults.ReadyGrace, "Initial file fallback delay")
	eventBuffer := fs.Int("event-buffer", defaults.EventBuffer, "Event subscriber buffer size")
	bridgeAddr := fs.String("bridge-addr", "", "Event bridge listen address")
	bridgeOrigins := fs.String("bridge-origins", "", "Allowed event bridge origins")
	windowWidth := fs.Int("window-width", defaults.WindowWidth, "Window width")
	windowHeight := fs.Int("window-height", defaults.WindowHeight, "Window height")
	title := fs.String("title", defaults.Title, "Window title")
	common := cli.AddCommonFlags(fs, "", "")

	fs.Usage = func() {
		printHelp(fs.Output(), defaults)
	}

	positionals, err := parseInterspersed(fs, args)
	if err != nil {
		return flagValues{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(flagValue *flag.Flag) {
		set[flagValue.Name] = true
	})

	flags := flagValues{
		ConfigFile:    *configFile,
		LogLevel:      *logLevel,
		ReadyGrace:    *readyGrace,
		BridgeAddr:    *bridgeAddr,
		BridgeOrigins: *bridgeOrigins,
		Title:         *title,
		Ints: map[string]int{
			"event-buffer":  *eventBuffer,
			"window-width":  *windowWidth,
			"window-height": *windowHeight,
		},
		Verbose: common.Verbose,
		Quiet:   common.Quiet,
		Help:    common.Help,
		Version: common.Version,
		Set:     set,
		Args:    positionals,
	}
	if flags.Help {
		fs.SetOutput(os.Stdout)
		fs.Usage()
		return flags, flag.ErrHelp
	}

	return flags, nil
}

// parseInterspersed accepts options after the file, as in
// "markdeck deck.md --verbose". FlagSet.Parse stops at the first positional,
// so parsing resumes after each one until the args run out or "--" ends them.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positionals []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		remaining := fs.Args()
		if len(remaining) == 0 {
			return positionals, nil
		}
		consumed := len(args) - len(remaining)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positionals, remaining...), nil
		}
		positionals = append(positionals, remaining[0])
		args = remaining[1:]
	}
}

type helpOption struct {
	Name string
	Desc string
}

func printHelp(out io.Writer, defaults configDefaults) {
	fmt.Fprintln(out, "Usage: markdeck [options] [file]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Markdown viewer and slide presenter")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Options may appear before or after the file. Use -- to pass a file")
	fmt.Fprintln(out, "name that starts with a dash.")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Options:")

	writeOptionGroup(out, "General", []helpOption{
		{
			Name: "--config FILE",
			Desc: fmt.Sprintf("YAML settings file (env: MARKDECK_CONFIG, default: %s)", displayPath(DefaultSettingsPath())),
		},
		{
			Name: "--ready-grace DURATION",
			Desc: fmt.Sprintf("Initial file fallback delay (env: MARKDECK_READY_GRACE, default: %s)", defaults.ReadyGrace),
		},
		{
			Name: "--event-buffer N",
			Desc: fmt.Sprintf("Event subscriber buffer (env: MARKDECK_EVENT_BUFFER, default: %d)", defaults.EventBuffer),
		},
	})

	writeOptionGroup(out, "Window", []helpOption{
		{
			Name: "--window-width PX",
			Desc: fmt.Sprintf("Initial width (env: MARKDECK_WINDOW_WIDTH, default: %d)", defaults.WindowWidth),
		},
		{
			Name: "--window-height PX",
			Desc: fmt.Sprintf("Initial height (env: MARKDECK_WINDOW_HEIGHT, default: %d)", defaults.WindowHeight),
		},
		{
			Name: "--title TITLE",
			Desc: fmt.Sprintf("Window title (env: MARKDECK_TITLE, default: %s)", defaults.Title),
		},
	})

	writeOptionGroup(out, "Event bridge", []helpOption{
		{
			Name: "--bridge-addr HOST:PORT",
			Desc: "Loopback websocket address (env: MARKDECK_BRIDGE_ADDR, default: disabled)",
		},
		{
			Name: "--bridge-origins LIST",
			Desc: "Comma separated allowed origins (env: MARKDECK_BRIDGE_ORIGINS, default: same host)",
		},
	})

	writeOptionGroup(out, "Logging", []helpOption{
		{
			Name: "--log-level LEVEL",
			Desc: fmt.Sprintf("debug, info, warning or error (env: MARKDECK_LOG_LEVEL, default: %s)", defaults.LogLevel),
		},
		{Name: "--verbose", Desc: "Enable debug logging"},
		{Name: "--quiet", Desc: "Reduce logging to warnings"},
	})

	writeOptionGroup(out, "Other", []helpOption{
		{Name: "--help, -h", Desc: "Show help"},
		{Name: "--version, -v", Desc: "Print version and exit"},
	})
}

func writeOptionGroup(out io.Writer, title string, options []helpOption) {
	fmt.Fprintf(out, "  %s:\n", title)
	for _, option := range options {
		fmt.Fprintf(out, "    %-26s %s\n", option.Name, option.Desc)
	}
	fmt.Fprintln(out, "")
}

func displayPath(path string) string {
	if path == "" {
		return "none"
	}
	return path
}
