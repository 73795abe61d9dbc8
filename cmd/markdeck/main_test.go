package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func isolateConfig(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("MARKDECK_CONFIG", "")
}

func TestRunExitCodes(t *testing.T) {
	cases := map[string]struct {
		args []string
		want int
	}{
		"version":         {args: []string{"--version"}, want: 0},
		"help":            {args: []string{"-h"}, want: 0},
		"invalid flag":    {args: []string{"--event-buffer", "0"}, want: 1},
		"flag after file": {args: []string{"deck.md", "--version"}, want: 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			isolateConfig(t)
			require.Equal(t, tc.want, run(tc.args))
		})
	}
}

func TestRunMissingSettingsFile(t *testing.T) {
	isolateConfig(t)
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	require.Equal(t, 1, run([]string{"--config", missing}))
}
