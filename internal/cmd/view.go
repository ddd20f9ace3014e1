package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dedene/datlink-cli/internal/dat"
	"github.com/dedene/datlink-cli/internal/daturl"
	"github.com/dedene/datlink-cli/internal/htmlpost"
	"github.com/dedene/datlink-cli/internal/outfmt"
	"github.com/dedene/datlink-cli/internal/tui"
	"github.com/dedene/datlink-cli/internal/ui"
)

// ViewCmd shows the posts of a dat file, dat URL, thread URL or archive page.
type ViewCmd struct {
	Source   string `arg:"" help:"File path, dat URL or thread URL"`
	Archived bool   `help:"Resolve thread URLs to the archive dat" short:"a"`
	HTML     bool   `help:"Treat the source as an HTML page" name:"html"`
	Limit    int    `help:"Show at most N posts (0 = all)" short:"n" default:"0"`
}

// Run loads the source, parses it and renders the posts.
func (c *ViewCmd) Run(ctx context.Context, root *RootFlags) error {
	src := c.Source
	asHTML := c.HTML || isHTMLFile(src)

	if !asHTML && daturl.IsThreadURL(src) {
		datURL, err := daturl.Derive(src, c.Archived)
		if err != nil {
			return err
		}

		src = datURL
	}

	text, err := decodeSource(ctx, src)
	if err != nil {
		return err
	}

	var posts []dat.Post

	title := dat.Title(text)
	if asHTML {
		posts = htmlpost.ParsePosts(text)
		title = ""
	} else {
		posts = dat.Parse(text)
	}

	if err := dat.Require(posts); err != nil {
		return fmt.Errorf("%s: %w", c.Source, err)
	}

	if c.Limit > 0 && len(posts) > c.Limit {
		posts = posts[:c.Limit]
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteList(os.Stdout, posts)
	}

	if title == "" {
		title = c.Source
	}

	u := ui.FromContext(ctx)
	if u != nil && u.Interactive() && !root.NoInput {
		return tui.Browse(title, posts, u.Out().ColorEnabled())
	}

	width := 80
	color := false

	if u != nil {
		width = u.Width()
		color = u.Out().ColorEnabled()
	}

	fmt.Fprintln(os.Stdout, ui.RenderPosts(posts, width, color))

	return nil
}

func isHTMLFile(src string) bool {
	if isRemote(src) {
		return false
	}

	ext := strings.ToLower(filepath.Ext(src))

	return ext == ".html" || ext == ".htm"
}
