package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"github.com/dedene/datlink-cli/internal/dat"
)

var (
	breakRe = regexp.MustCompile(`(?i) ?<br ?/?> ?`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
)

// PlainText turns a post message into terminal text: breaks become
// newlines, tags are dropped and entities decoded.
func PlainText(message string) string {
	s := breakRe.ReplaceAllString(message, "\n")
	s = tagRe.ReplaceAllString(s, "")

	return html.UnescapeString(s)
}

// PostHeader formats the "N name [mail] date ID:x" line of a post.
func PostHeader(n int, p dat.Post) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d %s", n, PlainText(p.Name))

	if p.Mail != "" {
		fmt.Fprintf(&b, " [%s]", p.Mail)
	}

	if p.Date != "" {
		b.WriteString(" " + p.Date)
	}

	if p.ID != "" {
		b.WriteString(" ID:" + p.ID)
	}

	return b.String()
}

// RenderPost renders one post numbered n, wrapped to width.
func RenderPost(n int, p dat.Post, width int, color bool) string {
	header := PostHeader(n, p)
	body := lipgloss.NewStyle().PaddingLeft(2)

	if width > 4 {
		body = body.Width(width - 2)
	}

	if color {
		header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16a34a")).Render(header)
	}

	return header + "\n" + body.Render(PlainText(p.Message))
}

// RenderPosts renders posts numbered from 1 separated by blank lines.
func RenderPosts(posts []dat.Post, width int, color bool) string {
	parts := make([]string, len(posts))
	for i, p := range posts {
		parts[i] = RenderPost(i+1, p, width, color)
	}

	return strings.Join(parts, "\n\n")
}
