package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReinvokesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "releases.yml")
	require.NoError(t, os.WriteFile(path, []byte("releases: []\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- New(20*time.Millisecond, nil).Run(ctx, path, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Writes to other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	// Several quick writes collapse into one run.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("releases: []\n# edit\n"), 0o644))
	}
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunLogsCallbackErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "releases.yml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	logger, hook := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())

	err := New(0, logger).Run(ctx, path, func(context.Context) error {
		cancel()
		return errors.New("bad input")
	})
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "re-render failed", entry.Message)
}

func TestRunMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "releases.yml")
	err := New(0, nil).Run(context.Background(), path, func(context.Context) error { return nil })
	assert.Error(t, err)
}
