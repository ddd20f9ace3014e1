// Package tui provides the interactive Bubbletea browser for thread posts.
package tui

import (
	"strconv"
	"strings"

	"github.com/dedene/datlink-cli/internal/dat"
	"github.com/dedene/datlink-cli/internal/ui"
)

// previewLen caps the message preview shown in the list, in runes.
const previewLen = 60

// PostItem wraps dat.Post to implement the bubbles list.DefaultItem
// interface.
type PostItem struct {
	n    int
	post dat.Post
}

// NewPostItem creates a PostItem for the post numbered n (1-based).
func NewPostItem(n int, p dat.Post) PostItem {
	return PostItem{n: n, post: p}
}

// Title returns the post header line.
func (i PostItem) Title() string { return ui.PostHeader(i.n, i.post) }

// Description returns the first line of the message, truncated.
func (i PostItem) Description() string {
	text := strings.TrimSpace(ui.PlainText(i.post.Message))
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}

	r := []rune(text)
	if len(r) > previewLen {
		return string(r[:previewLen]) + "…"
	}

	return text
}

// FilterValue matches on number, name, ID and message text.
func (i PostItem) FilterValue() string {
	return strconv.Itoa(i.n) + " " + ui.PlainText(i.post.Name) + " " + i.post.ID + " " + ui.PlainText(i.post.Message)
}

// Number returns the 1-based post number.
func (i PostItem) Number() int { return i.n }

// Post returns the wrapped post.
func (i PostItem) Post() dat.Post { return i.post }
