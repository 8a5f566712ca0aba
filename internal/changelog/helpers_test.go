package changelog

import (
	"context"
	"errors"
	"strings"
)

// identityFormatter returns documents untouched so tests can assert exact
// renderer output.
type identityFormatter struct{}

func (identityFormatter) Format(ctx context.Context, src string) (string, error) {
	return src, ctx.Err()
}

// failingFormatter rejects documents containing marker.
type failingFormatter struct {
	marker string
}

var errRejected = errors.New("rejected by formatter")

func (f failingFormatter) Format(_ context.Context, src string) (string, error) {
	if strings.Contains(src, f.marker) {
		return "", errRejected
	}
	return src, nil
}

func newTestRenderer(mutate func(*Options)) *Renderer {
	opts := DefaultOptions()
	opts.BaseIssueURL = "https://x/issues/"
	if mutate != nil {
		mutate(&opts)
	}
	return NewRenderer(opts, identityFormatter{}, nil)
}

var (
	bob = User{Login: "bob", HTMLURL: "https://gh/bob"}
	amy = User{Login: "amy", HTMLURL: "https://gh/amy", Name: "Amy Pond"}
)

func issueCommit(sha, message, title string, user User) Commit {
	return Commit{
		Message:     message,
		CommitSHA:   sha,
		GitHubIssue: &Issue{Title: title, User: user},
	}
}
