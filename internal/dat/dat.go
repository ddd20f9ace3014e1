// Package dat reads and writes the 5ch dat format: one post per line, fields
// separated by "<>".
//
// A record is name<>mail<>date ID:id<>message<>title. The title slot is only
// filled on the first line and is ignored by Parse; Serialize leaves it empty.
package dat

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoPosts is returned by Require when a parse produced nothing.
var ErrNoPosts = errors.New("no posts found")

// DefaultName replaces an empty name.
const DefaultName = "名無しさん"

// Separator splits the fields of a record.
const Separator = "<>"

// Post is one reply in a thread.
type Post struct {
	Name    string `json:"name"`
	Mail    string `json:"mail"`
	Date    string `json:"date"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// BreakMode selects how line-break markers in messages are returned.
type BreakMode int

const (
	// KeepBreaks leaves <br> markup in place, for markup renderers.
	KeepBreaks BreakMode = iota
	// Newlines turns <br> markers into "\n", for plain-text renderers.
	Newlines
)

var (
	idRe    = regexp.MustCompile(`ID:(\S+)`)
	breakRe = regexp.MustCompile(`(?i) ?<br ?/?> ?`)
)

// Parse splits dat text into posts, keeping <br> markup in messages.
func Parse(text string) []Post {
	return ParseWith(text, KeepBreaks)
}

// ParseWith splits dat text into posts. Blank lines and lines with fewer than
// four fields are skipped without error.
//
// An empty name becomes DefaultName. A whitespace-only name is kept as is.
func ParseWith(text string, mode BreakMode) []Post {
	posts := []Post{}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, Separator)
		if len(fields) < 4 {
			continue
		}

		name := fields[0]
		if name == "" {
			name = DefaultName
		}

		date, id := splitDateID(fields[2])

		msg := fields[3]
		if mode == Newlines {
			msg = breakRe.ReplaceAllString(msg, "\n")
		}

		posts = append(posts, Post{
			Name:    name,
			Mail:    fields[1],
			Date:    date,
			ID:      id,
			Message: msg,
		})
	}

	return posts
}

// splitDateID pulls "ID:xxx" out of the date field.
func splitDateID(field string) (date, id string) {
	if m := idRe.FindStringSubmatch(field); m != nil {
		id = m[1]
	}

	date = strings.TrimSpace(idRe.ReplaceAllString(field, ""))

	return date, id
}

// Serialize writes posts back to dat text. Each record ends with an empty
// title field; a non-empty result ends with a newline.
func Serialize(posts []Post) string {
	if len(posts) == 0 {
		return ""
	}

	var b strings.Builder

	for _, p := range posts {
		b.WriteString(p.Name)
		b.WriteString(Separator)
		b.WriteString(p.Mail)
		b.WriteString(Separator)
		b.WriteString(p.Date)

		if p.ID != "" {
			b.WriteString(" ID:")
			b.WriteString(p.ID)
		}

		b.WriteString(Separator)
		b.WriteString(p.Message)
		b.WriteString(Separator)
		b.WriteByte('\n')
	}

	return b.String()
}

// Require returns ErrNoPosts for an empty result.
func Require(posts []Post) error {
	if len(posts) == 0 {
		return ErrNoPosts
	}

	return nil
}

// Filename names a dat file after its thread key, "thread.dat" when unknown.
func Filename(key string) string {
	if key == "" {
		return "thread.dat"
	}

	return key + ".dat"
}

// Title returns the thread title stored in the fifth field of the first
// record, or "" when absent.
func Title(text string) string {
	line, _, _ := strings.Cut(text, "\n")

	fields := strings.Split(strings.TrimRight(line, "\r"), Separator)
	if len(fields) < 5 {
		return ""
	}

	return strings.TrimSpace(fields[4])
}
