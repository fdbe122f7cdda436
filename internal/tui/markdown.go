package tui

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownWidth is the word-wrap column for rendered markdown.
const MarkdownWidth = 80

//nolint:gochecknoglobals // cached renderer, built on first use
var markdownRenderer = sync.OnceValue(func() *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(MarkdownWidth),
	)
	if err != nil {
		return nil
	}
	return r
})

// RenderMarkdown renders md for the terminal. When colors are disabled or
// rendering fails, md is returned unchanged.
func RenderMarkdown(md string) string {
	if !HasColorSupport() {
		return md
	}
	r := markdownRenderer()
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
