package changelog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewPlain(t *testing.T) {
	releases := []Release{
		{
			Name: "table@1.0.0",
			Date: "2024-03-01",
			Commits: []Commit{
				issueCommit("b2", "fix(table): crash", "Fixes #42 crash", amy),
				{CommitSHA: "zz", Message: "fix(table): no issue"},
			},
		},
		{
			Name:    "form@1.0.0",
			Commits: []Commit{issueCommit("c3", "feat(form): steps", "Steps", bob)},
		},
	}

	r := newTestRenderer(func(o *Options) {
		o.CategoryTitles = map[string]string{"feat": "Features"}
	})

	var buf bytes.Buffer
	require.NoError(t, r.Preview(releases, &buf, PreviewOptions{Plain: true, MaxWidth: 80}))

	want := "## form@1.0.0\n" +
		"\n### Features\n" +
		"  - Steps [@bob](https://gh/bob)\n" +
		"\n" +
		"## table@1.0.0 (2024-03-01)\n" +
		"\n### fix\n" +
		"  - Closes [#42](https://x/issues/42) crash [@amy](https://gh/amy)\n" +
		"  (1 commit(s) without output skipped)\n"
	assert.Equal(t, want, buf.String())
}

func TestPreviewUnnamedGroup(t *testing.T) {
	r := newTestRenderer(func(o *Options) { o.Categories = nil })

	var buf bytes.Buffer
	rel := Release{Name: "pkg@1.0.0", Commits: []Commit{issueCommit("1", "m", "Thing", bob)}}
	require.NoError(t, r.Preview([]Release{rel}, &buf, PreviewOptions{Plain: true, MaxWidth: 80}))

	assert.Equal(t, "## pkg@1.0.0\n\n### changes\n  - Thing [@bob](https://gh/bob)\n", buf.String())
}

func TestPreviewNothing(t *testing.T) {
	var buf bytes.Buffer
	err := newTestRenderer(nil).Preview(nil, &buf, PreviewOptions{Plain: true, MaxWidth: 80})
	require.NoError(t, err)
	assert.Equal(t, "No releases with renderable commits.\n", buf.String())
}

func TestPreviewColored(t *testing.T) {
	var buf bytes.Buffer
	rel := Release{Name: "pkg@1.0.0", Commits: []Commit{issueCommit("1", "fix(pkg): x", "Thing", bob)}}
	require.NoError(t, newTestRenderer(nil).Preview([]Release{rel}, &buf, PreviewOptions{MaxWidth: 80}))

	out := buf.String()
	assert.Contains(t, out, "pkg@1.0.0")
	assert.Contains(t, out, bugMarker)
	assert.Contains(t, out, "  - ")
}
