package changelog

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ariel-frischer/relnotes/internal/mdfmt"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a category in previews.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps well-known category names to their terminal styling.
var categoryStyles = map[string]CategoryStyle{
	"feat": {Color: color.New(color.FgGreen), Icon: breakingMarker},
	"fix":  {Color: color.New(color.FgYellow), Icon: bugMarker},
	"UI":   {Color: color.New(color.FgMagenta), Icon: "🎨"},
}

var defaultStyle = CategoryStyle{Color: color.New(color.FgBlue), Icon: "•"}

// PreviewOptions controls the terminal preview.
type PreviewOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// Preview writes a terminal summary of what RenderMarkdown would produce:
// releases in key order, their non-empty categories and one line per
// rendered contribution.
func (r *Renderer) Preview(releases []Release, w io.Writer, opts PreviewOptions) error {
	width := resolveWidth(opts.MaxWidth)

	sorted := append([]Release(nil), releases...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return r.ReleaseKey(sorted[i]) < r.ReleaseKey(sorted[j])
	})

	shown := 0
	for _, rel := range sorted {
		groups := NonEmptyGroups(ClassifyByCategory(rel, r.opts.Categories, r.opts.ScopePrefixes))
		if len(groups) == 0 {
			continue
		}
		if shown > 0 {
			fmt.Fprintln(w)
		}
		shown++

		if err := writeReleaseHeader(r.ReleaseTitle(rel), rel.Date, w, opts); err != nil {
			return fmt.Errorf("writing header for %s: %w", rel.Name, err)
		}
		for _, g := range groups {
			if err := r.writeCategorySection(g, w, opts, width); err != nil {
				return fmt.Errorf("writing %s section of %s: %w", g.Name, rel.Name, err)
			}
		}
	}

	if shown == 0 {
		_, err := fmt.Fprintln(w, "No releases with renderable commits.")
		return err
	}
	return nil
}

// writeReleaseHeader writes the release header line.
func writeReleaseHeader(title, date string, w io.Writer, opts PreviewOptions) error {
	header := title
	if date != "" {
		header = fmt.Sprintf("%s (%s)", title, date)
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

// writeCategorySection writes a category header and its contributions.
func (r *Renderer) writeCategorySection(g CategoryGroup, w io.Writer, opts PreviewOptions, width int) error {
	style, ok := categoryStyles[g.Name]
	if !ok {
		style = defaultStyle
	}

	name := g.Name
	if name == "" {
		name = "changes"
	}
	if title := r.opts.CategoryTitles[g.Name]; title != "" {
		name = title
	}

	var header string
	if opts.Plain {
		header = fmt.Sprintf("\n### %s\n", name)
	} else {
		colored := style.Color.SprintFunc()
		header = fmt.Sprintf("\n%s %s\n", colored(style.Icon), colored(name))
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	skipped := 0
	for _, c := range g.Commits {
		line, ok := r.RenderContribution(c)
		if !ok {
			skipped++
			continue
		}
		if err := writeEntry(strings.TrimPrefix(line, "- "), style, w, opts, width); err != nil {
			return err
		}
	}
	if skipped > 0 {
		_, err := fmt.Fprintf(w, "  (%d commit(s) without output skipped)\n", skipped)
		return err
	}
	return nil
}

// writeEntry writes a single contribution with optional wrapping.
func writeEntry(text string, style CategoryStyle, w io.Writer, opts PreviewOptions, width int) error {
	prefix := "  - "

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	wrapped := mdfmt.WrapText(text, width-len(prefix), "    ")

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
