package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContributors(t *testing.T) {
	f := newFixture(t)

	tests := map[string]struct {
		args []string
		want string
	}{
		"all releases": {
			args: []string{"contributors", f.releases},
			want: committersSection,
		},
		"filtered": {
			args: []string{"contributors", f.releases, "--package", "form"},
			want: "#### Committers: 1\n- [@bob](https://gh/bob)\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stdout, _, err := runCLI(t, append([]string{"--config", f.config}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestContributors_DocumentList(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "with-contributors.yml")
	content := testReleases + "contributors:\n  - login: zed\n    html_url: https://gh/zed\n    name: Ada\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	stdout, _, err := runCLI(t, "--config", f.config, "contributors", path)
	require.NoError(t, err)
	assert.Equal(t, "#### Committers: 1\n- Ada ([@zed](https://gh/zed))\n", stdout)
}

func TestContributors_RenderedSort(t *testing.T) {
	f := newFixture(t)
	t.Setenv("RELNOTES_CONTRIBUTOR_SORT", "rendered")

	path := filepath.Join(f.dir, "sort.yml")
	content := "releases: []\ncontributors:\n" +
		"  - login: bob\n    html_url: https://gh/bob\n" +
		"  - login: adam\n    html_url: https://gh/adam\n    name: Zoe\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	stdout, _, err := runCLI(t, "--config", f.config, "contributors", path)
	require.NoError(t, err)
	assert.Equal(t, "#### Committers: 2\n- Zoe ([@adam](https://gh/adam))\n- [@bob](https://gh/bob)\n", stdout)
}

func TestContributors_MissingInput(t *testing.T) {
	f := newFixture(t)

	_, _, err := runCLI(t, "--config", f.config, "contributors")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}
