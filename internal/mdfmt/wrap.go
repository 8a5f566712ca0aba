package mdfmt

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// listMarker matches a bullet or ordered list marker with its trailing space.
var listMarker = regexp.MustCompile(`^(?:[-*+]|\d{1,9}[.)]) `)

// orderedMarker matches a word that would start an ordered list.
var orderedMarker = regexp.MustCompile(`^\d{1,9}[.)]$`)

// WrapText wraps text at spaces so that each line holds at most maxWidth
// display columns of text. Continuation lines are prefixed with indent.
// Words wider than the limit are never split, and no line is started with a
// word that markdown would read as a block marker.
func WrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || runewidth.StringWidth(text) <= maxWidth {
		return text
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0
	for _, word := range strings.Split(text, " ") {
		w := runewidth.StringWidth(word)
		if cur.Len() > 0 && curWidth+1+w > maxWidth && !startsBlock(word) {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += w
	}
	lines = append(lines, cur.String())

	return strings.Join(lines, "\n"+indent)
}

// startsBlock reports whether a line beginning with word would open a new
// block (list item, heading, quote) instead of continuing a paragraph.
func startsBlock(word string) bool {
	switch word {
	case "-", "*", "+", ">":
		return true
	}
	return strings.HasPrefix(word, "#") || strings.HasPrefix(word, ">") || orderedMarker.MatchString(word)
}

// wrapProseLine wraps a paragraph or list item line to width, indenting
// continuation lines under the item text.
func wrapProseLine(line string, width int) string {
	if runewidth.StringWidth(line) <= width {
		return line
	}

	content := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(content)]

	marker := listMarker.FindString(content)
	rest := content[len(marker):]
	cont := indent + strings.Repeat(" ", len(marker))

	avail := width - runewidth.StringWidth(indent) - len(marker)
	return indent + marker + WrapText(rest, avail, cont)
}
