// Package daturl derives dat-file URLs from 5ch thread URLs.
package daturl

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrPatternMismatch is returned when a URL is not a read.cgi thread URL.
	ErrPatternMismatch = errors.New("not a thread URL (expected scheme://server.domain/test/read.cgi/board/key/)")
	// ErrThreadIDTooShort is returned when the thread key is shorter than MinKeyLen.
	ErrThreadIDTooShort = errors.New("thread key too short")
)

// MinKeyLen is the shortest thread key the archive layouts can address.
const MinKeyLen = 5

// flagshipDomains moved their archives from kako/ to oyster/.
var flagshipDomains = map[string]bool{
	"5ch.net":     true,
	"bbspink.com": true,
}

var threadRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+.-]*)://([^./]+)\.([^/]+)/test/read\.cgi/([^/]+)/([^/?#]+)`)

// Thread is a parsed read.cgi thread URL.
type Thread struct {
	Scheme string
	Server string
	Domain string
	Board  string
	Key    string
}

// ParseThreadURL splits a thread URL into its parts.
func ParseThreadURL(raw string) (Thread, error) {
	m := threadRe.FindStringSubmatch(raw)
	if m == nil {
		return Thread{}, ErrPatternMismatch
	}

	t := Thread{Scheme: m[1], Server: m[2], Domain: m[3], Board: m[4], Key: m[5]}
	if len(t.Key) < MinKeyLen {
		return Thread{}, fmt.Errorf("%w: %q", ErrThreadIDTooShort, t.Key)
	}

	return t, nil
}

// Host returns server.domain.
func (t Thread) Host() string {
	return t.Server + "." + t.Domain
}

// DatURL returns the live dat URL, or the archive location when archived is set.
func (t Thread) DatURL(archived bool) string {
	base := t.Scheme + "://" + t.Host() + "/" + t.Board

	if !archived {
		return base + "/dat/" + t.Key + ".dat"
	}

	if flagshipDomains[t.Domain] {
		return base + "/oyster/" + t.Key[:4] + "/" + t.Key + ".dat"
	}

	return base + "/kako/" + t.Key[:4] + "/" + t.Key[:5] + "/" + t.Key + ".dat"
}

// Derive maps a thread URL to its dat URL.
func Derive(raw string, archived bool) (string, error) {
	t, err := ParseThreadURL(raw)
	if err != nil {
		return "", err
	}

	return t.DatURL(archived), nil
}

// IsThreadURL reports whether raw looks like a read.cgi thread URL.
func IsThreadURL(raw string) bool {
	return threadRe.MatchString(raw)
}
