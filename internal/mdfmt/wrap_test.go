package mdfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapText(t *testing.T) {
	tests := map[string]struct {
		text   string
		width  int
		indent string
		want   string
	}{
		"fits":             {text: "a b", width: 10, want: "a b"},
		"no limit":         {text: "aaa bbb ccc", width: 0, want: "aaa bbb ccc"},
		"wraps with indent": {text: "aaa bbb ccc", width: 7, indent: "..", want: "aaa bbb\n..ccc"},
		"long word kept":   {text: "supercalifragilistic x", width: 5, want: "supercalifragilistic\nx"},
		"no block start":   {text: "aaa bbb - ccc", width: 7, want: "aaa bbb -\nccc"},
		"no heading start": {text: "aaa bbb #42 ccc", width: 7, want: "aaa bbb #42\nccc"},
		"wide runes":       {text: "日本 語です", width: 8, want: "日本\n語です"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.text, tt.width, tt.indent))
		})
	}
}

func TestStartsBlock(t *testing.T) {
	tests := map[string]struct {
		word string
		want bool
	}{
		"dash":      {word: "-", want: true},
		"star":      {word: "*", want: true},
		"plus":      {word: "+", want: true},
		"quote":     {word: ">", want: true},
		"quoted":    {word: ">x", want: true},
		"heading":   {word: "#tag", want: true},
		"ordered":   {word: "1.", want: true},
		"paren":     {word: "12)", want: true},
		"word":      {word: "word", want: false},
		"hyphenate": {word: "-x", want: false},
		"version":   {word: "1.2", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, startsBlock(tt.word))
		})
	}
}

func TestWrapProseLine(t *testing.T) {
	assert.Equal(t, "  1. aaa bbb\n     ccc", wrapProseLine("  1. aaa bbb ccc", 12))
	assert.Equal(t, "short", wrapProseLine("short", 12))
}
