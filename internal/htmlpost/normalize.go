package htmlpost

import (
	"regexp"
	"strconv"
	"strings"
)

// Sentinels use NUL, which never appears in markup.
const (
	breakToken   = "\x00BR\x00"
	anchorPrefix = "\x00A"
	anchorSuffix = "\x00"
	canonicalBR  = "<br>"
)

var (
	wbrRe       = regexp.MustCompile(`(?i)<wbr\s*/?>`)
	brRe        = regexp.MustCompile(`(?i)<br\s*/?>`)
	anchorOpen  = regexp.MustCompile(`(?i)<a(?:\s[^>]*)?>`)
	anchorClose = regexp.MustCompile(`(?i)</a\s*>`)
	hrefRe      = regexp.MustCompile(`(?i)\bhref\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>]+))`)
	tagRe       = regexp.MustCompile(`<[^>]*>`)
	spaceRe     = regexp.MustCompile(`[ \t\n\f\v]+`)
	brSpaceRe   = regexp.MustCompile(` ?<br> ?`)
)

// Normalize reduces post-body markup to the dat dialect: <br> breaks and
// <a href> anchors. Everything else is stripped.
//
// Anchors are rebuilt with only their href and keep their inner markup
// verbatim. An anchor without href is replaced by its inner content.
func Normalize(body string) string {
	s := wbrRe.ReplaceAllString(body, "")
	s = brRe.ReplaceAllString(s, canonicalBR)

	s, anchors := stashAnchors(s)

	s = strings.ReplaceAll(s, canonicalBR, breakToken)
	s = tagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, breakToken, canonicalBR)

	for i, a := range anchors {
		s = strings.Replace(s, anchorToken(i), a, 1)
	}

	s = spaceRe.ReplaceAllString(s, " ")
	s = brSpaceRe.ReplaceAllString(s, canonicalBR)

	return strings.TrimSpace(s)
}

func anchorToken(i int) string {
	return anchorPrefix + strconv.Itoa(i) + anchorSuffix
}

// stashAnchors swaps every <a>...</a> for a token, left to right, and
// returns the rebuilt anchors in token order.
func stashAnchors(s string) (string, []string) {
	var (
		b       strings.Builder
		anchors []string
	)

	for {
		open := anchorOpen.FindStringIndex(s)
		if open == nil {
			break
		}

		rest := s[open[1]:]

		closing := anchorClose.FindStringIndex(rest)
		if closing == nil {
			break
		}

		inner := rest[:closing[0]]
		b.WriteString(s[:open[0]])

		href, ok := attrHref(s[open[0]:open[1]])
		if ok {
			b.WriteString(anchorToken(len(anchors)))
			anchors = append(anchors, `<a href="`+strings.ReplaceAll(href, `"`, "&quot;")+`">`+inner+`</a>`)
		} else {
			b.WriteString(inner)
		}

		s = rest[closing[1]:]
	}

	b.WriteString(s)

	return b.String(), anchors
}

func attrHref(tag string) (string, bool) {
	m := hrefRe.FindStringSubmatch(tag)
	if m == nil {
		return "", false
	}

	for _, v := range m[1:] {
		if v != "" {
			return v, true
		}
	}

	return "", true
}
