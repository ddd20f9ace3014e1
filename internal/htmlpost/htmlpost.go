// Package htmlpost extracts posts from archived 5ch HTML pages.
//
// Pages are scanned with regular expressions over the raw markup; no DOM is
// built. Each post container is an article or div carrying a numeric id and a
// "post" class token, and its content runs until the next container.
package htmlpost

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/dedene/datlink-cli/internal/dat"
)

var (
	openTagRe   = regexp.MustCompile(`<([A-Za-z][A-Za-z0-9]*)\b[^>]*>`)
	markerRe    = regexp.MustCompile(`(?i)<(?:article|div)\b[^>]*>`)
	numericIDRe = regexp.MustCompile(`\sid\s*=\s*["']?(\d+)["'\s>]`)
	classRe     = regexp.MustCompile(`(?i)\sclass\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	mailtoRe    = regexp.MustCompile(`(?i)<a\b[^>]*\shref\s*=\s*["']mailto:([^"']*)["']`)
	linkTextRe  = regexp.MustCompile(`(?is)<a\b[^>]*>(.*?)</a\s*>`)
	canonicalRe = regexp.MustCompile(`(?i)<link\b[^>]*>`)
	relCanonRe  = regexp.MustCompile(`(?i)\srel\s*=\s*["']?canonical\b`)
	linkHrefRe  = regexp.MustCompile(`(?i)\shref\s*=\s*["']?([^"'\s>]+)`)
	readCGIKey  = regexp.MustCompile(`/test/read\.cgi/[^/]+/(\d+)`)
)

var (
	usernameClasses = []string{"postusername", "username", "name"}
	contentClasses  = []string{"post-content", "message"}
)

// ParsePosts returns the posts found in page, in document order.
func ParsePosts(page string) []dat.Post {
	starts := postMarkers(page)
	posts := make([]dat.Post, 0, len(starts))

	for i, start := range starts {
		end := len(page)
		if i+1 < len(starts) {
			end = starts[i+1]
		}

		posts = append(posts, parsePost(page[start:end]))
	}

	return posts
}

// ThreadKey returns the thread key from the page's canonical link, or "".
func ThreadKey(page string) string {
	for _, tag := range canonicalRe.FindAllString(page, -1) {
		if !relCanonRe.MatchString(tag) {
			continue
		}

		href := linkHrefRe.FindStringSubmatch(tag)
		if href == nil {
			continue
		}

		if m := readCGIKey.FindStringSubmatch(href[1]); m != nil {
			return m[1]
		}
	}

	return ""
}

func postMarkers(page string) []int {
	var starts []int

	for _, loc := range markerRe.FindAllStringIndex(page, -1) {
		tag := page[loc[0]:loc[1]]
		if numericIDRe.MatchString(tag) && hasClass(tag, "post") {
			starts = append(starts, loc[0])
		}
	}

	return starts
}

func parsePost(span string) dat.Post {
	var p dat.Post

	if m := mailtoRe.FindStringSubmatch(span); m != nil {
		p.Mail = html.UnescapeString(m[1])
	}

	if inner, ok := elementByClass(span, usernameClasses...); ok {
		if m := linkTextRe.FindStringSubmatch(inner); m != nil {
			inner = m[1]
		}

		p.Name = strings.TrimSpace(html.UnescapeString(stripTags(inner)))
	}

	if p.Name == "" {
		p.Name = dat.DefaultName
	}

	if inner, ok := elementByClass(span, "date"); ok {
		p.Date = strings.TrimSpace(html.UnescapeString(stripTags(inner)))
	}

	if inner, ok := elementByClass(span, "uid"); ok {
		id := strings.TrimSpace(html.UnescapeString(stripTags(inner)))
		p.ID = strings.TrimSpace(strings.TrimPrefix(id, "ID:"))
	}

	if inner, ok := elementByClass(span, contentClasses...); ok {
		p.Message = Normalize(inner)
	}

	return p
}

func stripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// hasClass reports whether an opening tag lists name as a class token.
func hasClass(tag, name string) bool {
	m := classRe.FindStringSubmatch(tag)
	if m == nil {
		return false
	}

	for _, c := range strings.Fields(m[1] + " " + m[2]) {
		if c == name {
			return true
		}
	}

	return false
}

// elementByClass returns the inner markup of the first element in s carrying
// one of the given class tokens. Classes are tried in order.
func elementByClass(s string, classes ...string) (string, bool) {
	tags := openTagRe.FindAllStringSubmatchIndex(s, -1)

	for _, class := range classes {
		for _, loc := range tags {
			if !hasClass(s[loc[0]:loc[1]], class) {
				continue
			}

			name := s[loc[2]:loc[3]]

			return innerElement(s[loc[1]:], name), true
		}
	}

	return "", false
}

// elementTagRes caches the open/close tag pattern per lowercased element name.
var elementTagRes sync.Map

func elementTagRe(name string) *regexp.Regexp {
	name = strings.ToLower(name)
	if re, ok := elementTagRes.Load(name); ok {
		return re.(*regexp.Regexp)
	}

	re, _ := elementTagRes.LoadOrStore(name, regexp.MustCompile(`(?i)<(/?)`+regexp.QuoteMeta(name)+`\b[^>]*>`))

	return re.(*regexp.Regexp)
}

// innerElement returns the markup before the close tag matching an already
// opened element named name, counting nested elements of the same name. An
// unclosed element runs to the end of s.
func innerElement(s, name string) string {
	re := elementTagRe(name)
	depth := 1

	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		if loc[3] > loc[2] {
			depth--
			if depth == 0 {
				return s[:loc[0]]
			}

			continue
		}

		if !strings.HasSuffix(s[loc[0]:loc[1]], "/>") {
			depth++
		}
	}

	return s
}
