package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = oldVersion, oldCommit, oldDate })

	Version, Commit, BuildDate = "1.2.0", "abc1234", "2024-05-01"
	assert.Equal(t, "relnotes 1.2.0 (commit abc1234, built 2024-05-01)", Summary())
	assert.False(t, IsDevBuild())

	Version = "dev"
	assert.True(t, IsDevBuild())
}
