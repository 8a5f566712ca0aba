// Package mdfmt normalizes generated markdown so that documents look the
// same no matter how their text was assembled.
//
// The formatter parses the document with goldmark to find code blocks,
// paragraphs and list items, then rewrites the remaining lines: trailing
// whitespace is trimmed, runs of spaces are collapsed, "*" and "+" bullets
// become "-", blank lines are collapsed and the document ends with a single
// newline. YAML front matter is kept verbatim.
package mdfmt

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultPrintWidth is the line width used when Options.PrintWidth is unset.
const DefaultPrintWidth = 80

// ProseWrap controls how paragraph and list text is wrapped.
type ProseWrap string

const (
	// ProseWrapPreserve keeps line breaks as written.
	ProseWrapPreserve ProseWrap = "preserve"
	// ProseWrapAlways wraps prose lines longer than the print width.
	ProseWrapAlways ProseWrap = "always"
)

// ErrMalformed is wrapped by every FormatError.
var ErrMalformed = errors.New("malformed markdown")

// FormatError reports input the formatter refuses to process.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed markdown at line %d: %s", e.Line, e.Reason)
	}
	return "malformed markdown: " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return ErrMalformed
}

// Options configures a Markdown formatter.
type Options struct {
	PrintWidth int
	ProseWrap  ProseWrap
}

// Markdown is the goldmark-backed formatter. It is safe for concurrent use.
type Markdown struct {
	opts Options
	md   goldmark.Markdown
}

// New creates a formatter, filling unset options with defaults.
func New(opts Options) *Markdown {
	if opts.PrintWidth <= 0 {
		opts.PrintWidth = DefaultPrintWidth
	}
	if opts.ProseWrap == "" {
		opts.ProseWrap = ProseWrapPreserve
	}
	return &Markdown{opts: opts, md: goldmark.New()}
}

// Format returns the normalized form of src.
func (m *Markdown) Format(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src = strings.ReplaceAll(src, "\r\n", "\n")
	if err := checkEncoding(src); err != nil {
		return "", err
	}

	frontMatter, body, err := splitFrontMatter(src)
	if err != nil {
		return "", err
	}

	out := m.formatBody(body)
	switch {
	case frontMatter == "":
		return out, nil
	case out == "":
		return frontMatter, nil
	default:
		return frontMatter + "\n" + out, nil
	}
}

// checkEncoding rejects invalid UTF-8 and NUL bytes.
func checkEncoding(src string) error {
	line := 1
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return &FormatError{Line: line, Reason: "invalid UTF-8"}
		case r == 0:
			return &FormatError{Line: line, Reason: "NUL byte"}
		case r == '\n':
			line++
		}
		i += size
	}
	return nil
}

// splitFrontMatter separates a leading "---" delimited YAML block.
func splitFrontMatter(src string) (frontMatter, body string, err error) {
	if !strings.HasPrefix(src, "---\n") {
		return "", src, nil
	}
	rest := src[len("---\n"):]
	if strings.HasPrefix(rest, "---\n") {
		return "---\n---\n", rest[len("---\n"):], nil
	}
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		if strings.HasSuffix(rest, "\n---") {
			return src + "\n", "", nil
		}
		return "", "", &FormatError{Line: 1, Reason: "unterminated front matter"}
	}
	cut := len("---\n") + end + len("\n---\n")
	return src[:cut], src[cut:], nil
}

// lineInfo records what the parser found on a source line.
type lineInfo struct {
	code   bool
	prose  bool
	bullet byte
}

func (m *Markdown) formatBody(body string) string {
	lines := strings.Split(body, "\n")
	infos := m.classify(body, len(lines))

	var out []string
	blank := true
	for i, line := range lines {
		info := infos[i]
		if info.code {
			out = append(out, line)
			blank = false
			continue
		}

		line = normalizeLine(line, info.bullet)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false

		if info.prose && m.opts.ProseWrap == ProseWrapAlways {
			line = wrapProseLine(line, m.opts.PrintWidth)
		}
		out = append(out, line)
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// classify parses body and tags every line.
func (m *Markdown) classify(body string, n int) []lineInfo {
	infos := make([]lineInfo, n)
	starts := lineStarts(body)
	lineOf := func(offset int) int {
		return sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	}
	mark := func(segs *text.Segments, apply func(*lineInfo)) {
		if segs == nil {
			return
		}
		for i := 0; i < segs.Len(); i++ {
			if l := lineOf(segs.At(i).Start); l >= 0 && l < n {
				apply(&infos[l])
			}
		}
	}

	doc := m.md.Parser().Parse(text.NewReader([]byte(body)))
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			mark(node.Lines(), func(li *lineInfo) { li.code = true })
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			mark(node.Lines(), func(li *lineInfo) { li.prose = true })
		case *ast.ListItem:
			list, ok := node.Parent().(*ast.List)
			if !ok || (list.Marker != '*' && list.Marker != '+') {
				break
			}
			if first := firstBlockLine(node); first != nil {
				if l := lineOf(first.Start); l >= 0 && l < n {
					infos[l].bullet = list.Marker
				}
			}
		}
		return ast.WalkContinue, nil
	})

	return infos
}

// firstBlockLine returns the first source segment of a list item's content.
func firstBlockLine(item ast.Node) *text.Segment {
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != ast.TypeBlock {
			continue
		}
		if segs := c.Lines(); segs != nil && segs.Len() > 0 {
			seg := segs.At(0)
			return &seg
		}
	}
	return nil
}

func lineStarts(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// normalizeLine trims, collapses spaces and rewrites the bullet marker.
func normalizeLine(line string, bullet byte) string {
	content := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(content)]

	if bullet != 0 && len(content) > 0 && content[0] == bullet &&
		(len(content) == 1 || content[1] == ' ' || content[1] == '\t') {
		content = "-" + content[1:]
	}

	content = strings.TrimRight(collapseSpaces(content), " \t")
	if content == "" {
		return ""
	}
	return indent + content
}

// collapseSpaces reduces runs of spaces to one, leaving code spans alone.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	codeRun := 0
	prevSpace := false
	for i := 0; i < len(s); {
		if s[i] == '`' {
			j := i
			for j < len(s) && s[j] == '`' {
				j++
			}
			run := j - i
			switch {
			case codeRun == 0:
				codeRun = run
			case codeRun == run:
				codeRun = 0
			}
			b.WriteString(s[i:j])
			i = j
			prevSpace = false
			continue
		}
		if s[i] == ' ' && codeRun == 0 {
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
			i++
			continue
		}
		b.WriteByte(s[i])
		prevSpace = false
		i++
	}
	return b.String()
}
