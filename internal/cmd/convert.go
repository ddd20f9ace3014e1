package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dedene/datlink-cli/internal/dat"
	"github.com/dedene/datlink-cli/internal/htmlpost"
	"github.com/dedene/datlink-cli/internal/outfmt"
	"github.com/dedene/datlink-cli/internal/ui"
)

// ConvertCmd turns an archived HTML thread page into a Shift_JIS dat file.
type ConvertCmd struct {
	Source string `arg:"" help:"HTML file path or page URL"`
	Output string `help:"Output file (default: <thread key>.dat in the output directory)" short:"o" type:"path"`
}

type convertResult struct {
	Source string `json:"source"`
	Key    string `json:"key"`
	File   string `json:"file"`
	Posts  int    `json:"posts"`
}

// Run parses the page and writes the serialized posts.
func (c *ConvertCmd) Run(ctx context.Context, root *RootFlags) error {
	page, err := decodeSource(ctx, c.Source)
	if err != nil {
		return err
	}

	posts := htmlpost.ParsePosts(page)
	if err := dat.Require(posts); err != nil {
		return fmt.Errorf("%s: %w", c.Source, err)
	}

	key := htmlpost.ThreadKey(page)

	path := c.Output
	if path == "" {
		path = filepath.Join(outputDir(ctx, ""), dat.Filename(key))
	}

	if err := saveShiftJIS(path, dat.Serialize(posts), root.Force); err != nil {
		return err
	}

	slog.Debug("converted page", "source", c.Source, "key", key, "posts", len(posts))

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, convertResult{Source: c.Source, Key: key, File: path, Posts: len(posts)})
	}

	if u := ui.FromContext(ctx); u != nil {
		u.Err().Successf("Wrote %d posts to %s", len(posts), path)
	}

	fmt.Fprintln(os.Stdout, path)

	return nil
}
