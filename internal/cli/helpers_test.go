package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const testReleases = `releases:
  - name: "@acme/table@1.0.0"
    date: "2024-03-01"
    commits:
      - message: "fix(table): crash"
        commitSHA: b2
        githubIssue:
          title: "Fixes #42 crash"
          user:
            login: amy
            html_url: https://gh/amy
      - message: "chore(release): publish"
        commitSHA: d4
  - name: "@acme/form@1.0.0"
    commits:
      - message: "feat(form): steps"
        commitSHA: c3
        githubIssue:
          title: "Steps"
          user:
            login: bob
            html_url: https://gh/bob
`

const testConfig = `base_issue_url: https://x/issues/
scope_prefixes: ["@acme/"]
`

// cliFixture holds the files a command test runs against.
type cliFixture struct {
	dir      string
	releases string
	config   string
}

func newFixture(t *testing.T) cliFixture {
	t.Helper()
	dir := t.TempDir()
	f := cliFixture{
		dir:      dir,
		releases: filepath.Join(dir, "releases.yml"),
		config:   filepath.Join(dir, "config.yml"),
	}
	require.NoError(t, os.WriteFile(f.releases, []byte(testReleases), 0o644))
	require.NoError(t, os.WriteFile(f.config, []byte(testConfig), 0o644))
	return f
}

// runCLI executes the root command with args and captures both streams.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag of cmd and its children to its default,
// since flag values live in package variables shared across tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
