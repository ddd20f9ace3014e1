package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dedene/datlink-cli/internal/actions"
	"github.com/dedene/datlink-cli/internal/dat"
	"github.com/dedene/datlink-cli/internal/daturl"
	"github.com/dedene/datlink-cli/internal/encoding"
	"github.com/dedene/datlink-cli/internal/fetch"
	"github.com/dedene/datlink-cli/internal/outfmt"
	"github.com/dedene/datlink-cli/internal/ui"
)

// FetchCmd downloads threads and stores them as Shift_JIS dat files.
type FetchCmd struct {
	URLs     []string `arg:"" name:"url" help:"Thread URLs"`
	Archived bool     `help:"Fetch from the archive (oyster/kako) instead of the live dat" short:"a"`
	Output   string   `help:"Output directory (default: config output_dir or .)" short:"o" type:"path"`
	Jobs     int      `help:"Concurrent downloads (default: config jobs or 2)" short:"j"`
}

// fetchResult is the JSON record for one downloaded thread.
type fetchResult struct {
	Input    string `json:"input"`
	DatURL   string `json:"dat_url,omitempty"`
	File     string `json:"file,omitempty"`
	Posts    int    `json:"posts"`
	Encoding string `json:"encoding,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Run derives, downloads, validates and saves every thread.
func (c *FetchCmd) Run(ctx context.Context, root *RootFlags) error {
	cfg := cfgFrom(ctx)
	dir := outputDir(ctx, c.Output)

	jobs := c.Jobs
	if jobs < 1 {
		jobs = cfg.JobCount()
	}

	results := make([]fetchResult, len(c.URLs))
	datURLs := make([]string, 0, len(c.URLs))
	index := make([]int, 0, len(c.URLs))

	for i, raw := range c.URLs {
		results[i].Input = raw

		datURL, err := daturl.Derive(raw, c.Archived)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}

		results[i].DatURL = datURL
		datURLs = append(datURLs, datURL)
		index = append(index, i)
	}

	for j, r := range clientFrom(ctx).FetchAll(ctx, datURLs, jobs) {
		res := &results[index[j]]

		if r.Err != nil {
			res.Error = blockedFallback(ctx, r.URL, r.Err).Error()
			continue
		}

		if err := c.store(res, r, dir, root.Force); err != nil {
			res.Error = err.Error()
		}
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}

	if outfmt.IsJSON(ctx) {
		if err := outfmt.WriteList(os.Stdout, results); err != nil {
			return err
		}
	} else {
		colorEnabled := false
		if u := ui.FromContext(ctx); u != nil {
			colorEnabled = u.Out().ColorEnabled()
		}

		fmt.Fprintln(os.Stdout, ui.RenderTable([]string{"URL", "File", "Posts", "Status"}, fetchRows(results), colorEnabled))
	}

	if failed > 0 {
		return failure(fmt.Errorf("%d of %d threads failed", failed, len(c.URLs)))
	}

	return nil
}

// store decodes, checks and saves one downloaded dat.
func (c *FetchCmd) store(res *fetchResult, r fetch.Result, dir string, force bool) error {
	text, tag, err := encoding.DecodeAuto(r.Body)
	if err != nil {
		return err
	}

	posts := dat.Parse(text)
	if err := dat.Require(posts); err != nil {
		return err
	}

	path := filepath.Join(dir, actions.AutoFilename(r.URL))
	if err := saveShiftJIS(path, text, force); err != nil {
		return err
	}

	slog.Debug("saved dat", "url", r.URL, "file", path, "posts", len(posts), "encoding", tag.String())

	res.File = path
	res.Posts = len(posts)
	res.Encoding = tag.String()

	return nil
}

func fetchRows(results []fetchResult) [][]string {
	rows := make([][]string, 0, len(results))

	for _, r := range results {
		status := "ok"
		if r.Error != "" {
			status = ui.FailedPrefix + ": " + r.Error
		}

		target := r.DatURL
		if target == "" {
			target = r.Input
		}

		rows = append(rows, []string{target, r.File, strconv.Itoa(r.Posts), status})
	}

	return rows
}
