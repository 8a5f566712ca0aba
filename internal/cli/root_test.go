// Package cli tests root command and global flags for relnotes.
// Related: internal/cli/root.go
// Tags: cli, root, commands, global-flags

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "relnotes", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	tests := map[string]struct {
		flagName  string
		shorthand string
	}{
		"config flag exists":  {flagName: "config", shorthand: "c"},
		"debug flag exists":   {flagName: "debug", shorthand: "d"},
		"verbose flag exists": {flagName: "verbose", shorthand: "v"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag, "Flag %s should exist", tt.flagName)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestRootCmd_SubcommandGroups(t *testing.T) {
	want := map[string]string{
		"render":       GroupRendering,
		"contributors": GroupRendering,
		"config":       GroupConfiguration,
		"version":      GroupConfiguration,
	}

	got := make(map[string]string)
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			got[cmd.Name()] = cmd.GroupID
		}
	}
	assert.Equal(t, want, got)
}

func TestRootCmd_UnknownFlag(t *testing.T) {
	_, _, err := runCLI(t, "render", "--bogus")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestRootCmd_VersionFlag(t *testing.T) {
	stdout, _, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "relnotes ")
	assert.Contains(t, stdout, "commit ")
}
