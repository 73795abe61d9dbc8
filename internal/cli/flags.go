// Package cli holds flag helpers shared by markdeck entry points.
package cli

import "flag"

const (
	defaultHelpDesc    = "Show help"
	defaultVersionDesc = "Print version and exit"
)

type CommonFlags struct {
	Help    bool
	Version bool
	Verbose bool
	Quiet   bool
}

// AddCommonFlags registers --help/-h, --version/-v, --verbose and --quiet.
func AddCommonFlags(fs *flag.FlagSet, helpDesc, versionDesc string) *CommonFlags {
	if fs == nil {
		return &CommonFlags{}
	}
	if helpDesc == "" {
		helpDesc = defaultHelpDesc
	}
	if versionDesc == "" {
		versionDesc = defaultVersionDesc
	}
	flags := &CommonFlags{}
	fs.BoolVar(&flags.Help, "help", false, helpDesc)
	fs.BoolVar(&flags.Help, "h", false, helpDesc)
	fs.BoolVar(&flags.Version, "version", false, versionDesc)
	fs.BoolVar(&flags.Version, "v", false, versionDesc)
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&flags.Quiet, "quiet", false, "Reduce logging to warnings")
	return flags
}
