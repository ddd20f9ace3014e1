package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dedene/datlink-cli/internal/actions"
	"github.com/dedene/datlink-cli/internal/daturl"
	"github.com/dedene/datlink-cli/internal/outfmt"
	"github.com/dedene/datlink-cli/internal/ui"
)

// URLCmd derives dat URLs from thread URLs.
type URLCmd struct {
	URLs     []string `arg:"" name:"url" help:"Thread URLs (https://server.domain/test/read.cgi/board/key/)"`
	Archived bool     `help:"Address the archive (oyster/kako) instead of the live dat" short:"a"`
	Copy     bool     `help:"Copy the dat URLs to the clipboard" short:"c"`
	Open     bool     `help:"Open the dat URLs in the browser" short:"o"`
}

// urlResult is the JSON record for one input URL.
type urlResult struct {
	Input  string `json:"input"`
	DatURL string `json:"dat_url,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Run derives every input and reports mismatches after processing all of them.
func (c *URLCmd) Run(ctx context.Context) error {
	u := ui.FromContext(ctx)
	cfg := cfgFrom(ctx)

	results := make([]urlResult, 0, len(c.URLs))
	derived := make([]string, 0, len(c.URLs))
	failed := 0

	for _, raw := range c.URLs {
		datURL, err := daturl.Derive(raw, c.Archived)
		if err != nil {
			failed++
			results = append(results, urlResult{Input: raw, Error: err.Error()})

			if u != nil && !outfmt.IsJSON(ctx) {
				u.Err().Errorf("%s: %v", raw, err)
			}

			continue
		}

		derived = append(derived, datURL)
		results = append(results, urlResult{Input: raw, DatURL: datURL})
	}

	if outfmt.IsJSON(ctx) {
		if err := outfmt.WriteList(os.Stdout, results); err != nil {
			return err
		}
	} else {
		for _, d := range derived {
			fmt.Fprintln(os.Stdout, d)
		}
	}

	if len(derived) > 0 && (c.Copy || boolOr(cfg.AutoCopy, false)) {
		if err := actions.CopyToClipboard(strings.Join(derived, "\n")); err != nil {
			slog.Warn("copying to clipboard", "error", err)
		} else if u != nil && !outfmt.IsJSON(ctx) {
			u.Err().Successf("Copied %d URL(s) to clipboard", len(derived))
		}
	}

	if c.Open || boolOr(cfg.AutoOpen, false) {
		for _, d := range derived {
			if err := actions.OpenInBrowser(d); err != nil {
				slog.Warn("opening browser", "url", d, "error", err)
			}
		}
	}

	if failed > 0 {
		return failure(fmt.Errorf("%d of %d URLs are not thread URLs", failed, len(c.URLs)))
	}

	return nil
}
