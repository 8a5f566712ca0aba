package changelog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidationError is a releases-file problem with the offending field path.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Load reads and validates a releases file. JSON files are accepted as well,
// being a subset of YAML.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening releases file: %w", err)
	}
	defer f.Close()

	return LoadFromReader(f)
}

// LoadFromReader decodes and validates a releases document from r.
func LoadFromReader(r io.Reader) (*Document, error) {
	var doc Document

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("parsing releases YAML: %w", err)
	}

	if err := Validate(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Validate checks the structural constraints of a releases document.
func Validate(doc *Document) error {
	for i := range doc.Releases {
		if err := validateRelease(&doc.Releases[i], i); err != nil {
			return err
		}
	}
	for i, u := range doc.Contributors {
		if u.Login == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("contributors[%d].login", i),
				Message: "required field is empty",
			}
		}
	}
	return nil
}

func validateRelease(rel *Release, index int) error {
	if strings.TrimSpace(rel.Name) == "" {
		return &ValidationError{
			Field:   fmt.Sprintf("releases[%d].name", index),
			Message: "required field is empty",
		}
	}

	if v := VersionOf(rel.Name); v != "" {
		if _, err := semver.NewVersion(v); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("releases[%d].name", index),
				Message: fmt.Sprintf("invalid version %q in %q: %v", v, rel.Name, err),
			}
		}
	}

	if rel.Date != "" && !datePattern.MatchString(rel.Date) {
		return &ValidationError{
			Field:   fmt.Sprintf("releases[%d].date", index),
			Message: fmt.Sprintf("invalid date format %q (expected: YYYY-MM-DD)", rel.Date),
		}
	}

	for j, c := range rel.Commits {
		if err := validateCommit(c, index, j); err != nil {
			return err
		}
	}
	return nil
}

func validateCommit(c Commit, releaseIndex, commitIndex int) error {
	field := fmt.Sprintf("releases[%d].commits[%d]", releaseIndex, commitIndex)

	if c.CommitSHA == "" {
		return &ValidationError{Field: field + ".commitSHA", Message: "required field is empty"}
	}
	if c.GitHubIssue != nil && c.GitHubIssue.User.Login == "" {
		return &ValidationError{Field: field + ".githubIssue.user.login", Message: "required field is empty"}
	}
	return nil
}

// VersionOf returns the version suffix of a release name ("1.2.3" for
// "@scope/pkg@1.2.3"), or "" when the name carries none.
func VersionOf(name string) string {
	at := strings.LastIndex(name, "@")
	if at <= 0 {
		return ""
	}
	return name[at+1:]
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
