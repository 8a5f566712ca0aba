package changelog

// DefaultUnreleasedTag is the release name that marks commits not yet tagged
// into a version.
const DefaultUnreleasedTag = "___unreleased___"

// Document is the root structure of a releases input file.
type Document struct {
	Releases     []Release `yaml:"releases" json:"releases"`
	Contributors []User    `yaml:"contributors,omitempty" json:"contributors,omitempty"`
}

// Release is a named, dated bundle of commits for one package version.
// The Name is either a package identifier such as "@scope/pkg@1.2.3" or
// the unreleased sentinel.
type Release struct {
	Name    string   `yaml:"name" json:"name"`
	Date    string   `yaml:"date,omitempty" json:"date,omitempty"`
	Commits []Commit `yaml:"commits" json:"commits"`
}

// Commit is a single change belonging to a release.
type Commit struct {
	Message     string   `yaml:"message" json:"message"`
	CommitSHA   string   `yaml:"commitSHA" json:"commitSHA"`
	Categories  []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	Packages    []string `yaml:"packages,omitempty" json:"packages,omitempty"`
	GitHubIssue *Issue   `yaml:"githubIssue,omitempty" json:"githubIssue,omitempty"`
}

// Issue is the issue-tracker record linked to a commit. It is read-only:
// rendering works on copies of its fields.
type Issue struct {
	Title       string       `yaml:"title" json:"title"`
	Number      int          `yaml:"number,omitempty" json:"number,omitempty"`
	User        User         `yaml:"user" json:"user"`
	PullRequest *PullRequest `yaml:"pull_request,omitempty" json:"pull_request,omitempty"`
}

// PullRequest holds the pull request reference of an issue.
type PullRequest struct {
	HTMLURL string `yaml:"html_url" json:"html_url"`
}

// User is an issue author, credited as a contributor.
type User struct {
	Login   string `yaml:"login" json:"login"`
	HTMLURL string `yaml:"html_url" json:"html_url"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
}

// CategoryGroup is the subsequence of a release's commits that matched one
// category. Groups are built per render call and never outlive it.
type CategoryGroup struct {
	Name    string
	Commits []Commit
}

// PackageGroup collects commits sharing the same package label.
type PackageGroup struct {
	Label   string
	Commits []Commit
}

// IsUnreleased reports whether the release carries the given sentinel name.
func (r Release) IsUnreleased(tag string) bool {
	if tag == "" {
		tag = DefaultUnreleasedTag
	}
	return r.Name == tag
}

// HasCategory reports whether the commit is explicitly labelled with name.
func (c Commit) HasCategory(name string) bool {
	for _, cat := range c.Categories {
		if cat == name {
			return true
		}
	}
	return false
}

// PullRequestURL returns the linked pull request URL, or "" when absent.
func (i *Issue) PullRequestURL() string {
	if i == nil || i.PullRequest == nil {
		return ""
	}
	return i.PullRequest.HTMLURL
}

// DisplayKey is the value contributors are ordered by: the display name when
// present, the login otherwise.
func (u User) DisplayKey() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}
