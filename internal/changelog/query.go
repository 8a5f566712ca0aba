package changelog

import (
	"fmt"
	"strings"
)

// ReleaseNotFoundError is returned when a requested release doesn't exist.
type ReleaseNotFoundError struct {
	Name      string
	Available []string
}

func (e *ReleaseNotFoundError) Error() string {
	return fmt.Sprintf("release %q not found (available: %s)",
		e.Name, strings.Join(e.Available, ", "))
}

// GetRelease retrieves a release by its exact name.
func (d *Document) GetRelease(name string) (*Release, error) {
	for i := range d.Releases {
		if d.Releases[i].Name == name {
			return &d.Releases[i], nil
		}
	}
	return nil, &ReleaseNotFoundError{Name: name, Available: d.ListReleases()}
}

// ListReleases returns the release names in document order.
func (d *Document) ListReleases() []string {
	names := make([]string, len(d.Releases))
	for i, r := range d.Releases {
		names[i] = r.Name
	}
	return names
}

// FilterByScope returns the releases whose scope is one of scopes, keeping
// document order. An empty scope list returns every release.
func (d *Document) FilterByScope(scopes []string, prefixes []string) []Release {
	if len(scopes) == 0 {
		return append([]Release(nil), d.Releases...)
	}
	wanted := make(map[string]bool, len(scopes))
	for _, s := range scopes {
		wanted[s] = true
	}

	var out []Release
	for _, r := range d.Releases {
		if wanted[ScopeOf(r.Name, prefixes)] {
			out = append(out, r)
		}
	}
	return out
}

// CommitCount returns the number of commits across all releases.
func (d *Document) CommitCount() int {
	n := 0
	for _, r := range d.Releases {
		n += len(r.Commits)
	}
	return n
}
