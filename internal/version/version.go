package version

import "strconv"

// Version values are set at build time using -ldflags.
var Version = "dev"
var Major = "0"
var Minor = "0"
var Patch = "0"
var Built = ""
var GitCommit = ""

type VersionInfo struct {
	Version   string `json:"version"`
	Major     int    `json:"major"`
	Minor     int    `json:"minor"`
	Patch     int    `json:"patch"`
	Built     string `json:"built"`
	GitCommit string `json:"git_commit,omitempty"`
}

func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		Major:     parseInt(Major),
		Minor:     parseInt(Minor),
		Patch:     parseInt(Patch),
		Built:     Built,
		GitCommit: GitCommit,
	}
}

// IsDev reports whether the binary was built without a release version.
func IsDev() bool {
	return Version == "" || Version == "dev"
}

// Label renders "<name> dev" or "<name> version X" for --version output.
func Label(name string) string {
	if IsDev() {
		return name + " dev"
	}
	return name + " version " + Version
}

// Fields returns the build metadata as log fields.
func Fields() map[string]string {
	fields := map[string]string{
		"version": Version,
	}
	if Built != "" {
		fields["built"] = Built
	}
	if GitCommit != "" {
		fields["git_commit"] = GitCommit
	}
	return fields
}

func parseInt(value string) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}
