// Package actions provides output actions for derived links and converted
// files: clipboard copy, browser open and atomic file saves.
package actions

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// ErrClipboardUnsupported indicates the platform has no clipboard support.
var ErrClipboardUnsupported = errors.New("clipboard not supported on this platform")

// ClipboardWrite is a function variable for clipboard writes (swappable in tests).
var ClipboardWrite = clipboard.WriteAll

// ClipboardUnsupported mirrors clipboard.Unsupported (swappable in tests).
var ClipboardUnsupported = clipboard.Unsupported

// BrowserOpen is a function variable for opening URLs (swappable in tests).
var BrowserOpen = browser.OpenURL

// CopyToClipboard copies text to the system clipboard.
// Returns a descriptive error if clipboard is unsupported on the platform.
func CopyToClipboard(text string) error {
	if ClipboardUnsupported {
		return ErrClipboardUnsupported
	}

	return ClipboardWrite(text)
}

// OpenInBrowser opens the given URL in the default browser. It is also the
// fallback when a server refuses direct retrieval.
func OpenInBrowser(rawURL string) error {
	return BrowserOpen(rawURL)
}

// SaveFile writes data to path via temp-file + rename, creating parent
// directories as needed.
func SaveFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	tmpPath = "" // prevent deferred cleanup

	return nil
}

// AutoFilename extracts a filename from a dat URL path.
// Falls back to "thread.dat" if parsing fails or path is empty.
func AutoFilename(rawURL string) string {
	if rawURL == "" {
		return "thread.dat"
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "thread.dat"
	}

	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" {
		return "thread.dat"
	}

	return base
}
