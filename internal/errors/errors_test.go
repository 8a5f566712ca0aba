package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatErrorPlain(t *testing.T) {
	tests := map[string]struct {
		err  *CLIError
		want string
	}{
		"message only": {
			err:  NewRuntimeError("boom"),
			want: "Error [Runtime Error]: boom\n",
		},
		"with usage and remediation": {
			err: NewArgumentErrorWithUsage("bad", "relnotes render <file>", "do this", "or that"),
			want: "Error [Argument Error]: bad\n" +
				"\nUsage: relnotes render <file>\n" +
				"\nTo fix this:\n  • do this\n  • or that\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatErrorPlain(tt.err))
		})
	}
}

func TestAsCLIError(t *testing.T) {
	cliErr := ReleasesFileNotFound("releases.yml")
	wrapped := fmt.Errorf("render: %w", cliErr)

	assert.True(t, IsCLIError(wrapped))
	assert.Same(t, cliErr, AsCLIError(wrapped))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
	assert.False(t, IsCLIError(nil))
}

func TestMessages(t *testing.T) {
	cause := stderrors.New("line 3: bad date")

	tests := map[string]struct {
		err          *CLIError
		wantCategory ErrorCategory
		wantMessage  string
	}{
		"missing input": {
			err:          MissingReleasesInput(),
			wantCategory: Argument,
			wantMessage:  "no release input given",
		},
		"invalid releases file": {
			err:          InvalidReleasesFile("r.yml", cause),
			wantCategory: Argument,
			wantMessage:  "invalid releases file r.yml: line 3: bad date",
		},
		"config": {
			err:          ConfigLoadFailed(cause),
			wantCategory: Configuration,
			wantMessage:  "failed to load configuration: line 3: bad date",
		},
		"render": {
			err:          RenderFailed(cause),
			wantCategory: Runtime,
			wantMessage:  "failed to render changelog: line 3: bad date",
		},
		"release not found": {
			err:          ReleaseNotFound("table", []string{"form@1.0.0"}),
			wantCategory: Argument,
			wantMessage:  `no releases found for package "table"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.wantCategory, tt.err.Category)
			assert.Equal(t, tt.wantMessage, tt.err.Message)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}
}
